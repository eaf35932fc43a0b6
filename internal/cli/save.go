package cli

import (
	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/plan"
)

// newSaveCommand creates the "save" subcommand that archives an image to a
// tar file, creating the parent directory when needed.
func newSaveCommand(opts *Options) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "save IMAGE FILE",
		Short: "Archive an image to a tar file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			if err := validateImageRefs(args[:1]); err != nil {
				return err
			}

			planner := plan.NewPlanner(logger, opts.Engine, nil)
			p, err := planner.Save(args[0], args[1])
			if err != nil {
				return err
			}

			return executePlan(cmd, logger, p, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")

	return cmd
}
