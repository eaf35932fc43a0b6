package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/ghoutput"
	"github.com/gantry-ci/gantry/internal/plan"
	"github.com/gantry-ci/gantry/internal/registry"
)

// newPushCommand creates the "push" subcommand that logs in to registries
// and pushes image tags. Arguments after "--" are passed to every push
// invocation verbatim.
func newPushCommand(opts *Options) *cobra.Command {
	var (
		tags     []string
		username string
		password string
		awsECR   bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "push --tag TAG [flags] [-- PUSH_ARGS...]",
		Short: "Push image tags to a registry",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			if err := validateImageRefs(tags); err != nil {
				return err
			}

			var envCfg pushEnv
			if err := parseEnv(&envCfg); err != nil {
				return fmt.Errorf("parsing environment: %w", err)
			}
			if !cmd.Flags().Changed("username") && envPresent("GANTRY_REGISTRY_USERNAME") {
				username = envCfg.Username
			}
			if !cmd.Flags().Changed("password") && envPresent("GANTRY_REGISTRY_PASSWORD") {
				password = envCfg.Password
			}

			var auth registry.TokenProvider
			if awsECR {
				ecr, err := registry.NewECR(cmd.Context(), logger)
				if err != nil {
					return err
				}
				auth = ecr
			}

			planner := plan.NewPlanner(logger, opts.Engine, auth)
			p, err := planner.Push(cmd.Context(), plan.PushParams{
				Tags:      tags,
				Username:  username,
				Password:  password,
				CloudAuth: awsECR,
				PushArgs:  args,
			})
			if err != nil {
				return err
			}

			if err := executePlan(cmd, logger, p, dryRun); err != nil {
				return err
			}
			if dryRun || len(tags) == 0 {
				return nil
			}

			return ghoutput.Write(logger, map[string]string{
				"pushed-tags": strings.Join(tags, " "),
			})
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Image tag to push (repeatable)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Registry username (env GANTRY_REGISTRY_USERNAME)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Registry password (env GANTRY_REGISTRY_PASSWORD)")
	cmd.Flags().BoolVar(&awsECR, "aws-ecr", false, "Log in to Amazon ECR with ambient AWS credentials before pushing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")

	return cmd
}
