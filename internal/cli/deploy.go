package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/env"
	"github.com/gantry-ci/gantry/internal/manifest"
	"github.com/gantry-ci/gantry/internal/plan"
)

// newDeployCommand creates the "kubernetes-deploy" subcommand that renders
// manifest templates against the environment and applies them with kubectl.
func newDeployCommand(opts *Options) *cobra.Command {
	var (
		kubeconfig string
		envFiles   []string
		sets       []string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "kubernetes-deploy MANIFEST_DIR...",
		Short: "Render manifest templates and apply them to a cluster",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			var envCfg deployEnv
			if err := parseEnv(&envCfg); err != nil {
				return fmt.Errorf("parsing environment: %w", err)
			}
			if !cmd.Flags().Changed("config") && envPresent("GANTRY_KUBECONFIG") {
				kubeconfig = envCfg.Kubeconfig
			}

			kubeconfigPath := ""
			if kubeconfig != "" {
				path, cleanup, err := resolveContentPath(cmd.Context(), logger, kubeconfig)
				if err != nil {
					return fmt.Errorf("resolving kubeconfig: %w", err)
				}
				defer cleanup()
				kubeconfigPath = path
			}

			vars := env.FromOS()
			for _, file := range envFiles {
				loaded, err := env.LoadEnvFile(file)
				if err != nil {
					return err
				}
				vars = env.Merge(vars, loaded)
			}
			for _, set := range sets {
				inline, err := env.ParseInlineVars(set)
				if err != nil {
					return err
				}
				vars = env.Merge(vars, inline)
			}

			renderer := manifest.NewRenderer(logger)
			files, err := renderer.Discover(args)
			if err != nil {
				return err
			}

			dir, cleanup, err := renderer.Render(files, vars)
			if err != nil {
				return err
			}
			defer cleanup()

			return executePlan(cmd, logger, plan.Apply(dir, kubeconfigPath), dryRun)
		},
	}

	cmd.Flags().StringVar(&kubeconfig, "config", "", "Kubeconfig path or URI (env GANTRY_KUBECONFIG)")
	cmd.Flags().StringArrayVar(&envFiles, "env-file", nil, "Env file merged over the process environment (repeatable)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Inline KEY=VALUE vars merged last (comma-separated, repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")

	return cmd
}
