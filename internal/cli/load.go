package cli

import (
	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/plan"
)

// newLoadCommand creates the "load" subcommand that loads an image archive
// into the engine. A missing archive is skipped with a warning.
func newLoadCommand(opts *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Load an image archive into the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			planner := plan.NewPlanner(logger, opts.Engine, nil)
			p := planner.Load(args[0])

			return executePlan(cmd, logger, p, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")

	return cmd
}
