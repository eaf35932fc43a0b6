package cli

import (
	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/plan"
)

// newTagCommand creates the "tag" subcommand that applies additional tags to
// an existing image.
func newTagCommand(opts *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "tag IMAGE NEW_TAG...",
		Short: "Apply additional tags to an existing image",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			if err := validateImageRefs(args); err != nil {
				return err
			}

			planner := plan.NewPlanner(logger, opts.Engine, nil)
			p := planner.Tag(args[0], args[1:])

			return executePlan(cmd, logger, p, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")

	return cmd
}
