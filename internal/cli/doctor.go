package cli

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/plan"
)

// newDoctorCommand creates the "doctor" subcommand that verifies the
// external tools gantry shells out to are present.
func newDoctorCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that required external tools are installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())
			return runDoctorChecks(logger, opts.Engine)
		},
	}
}

func runDoctorChecks(logger *slog.Logger, engine []string) error {
	if logger == nil {
		logger = slog.Default()
	}

	engineBinary := plan.DefaultEngine
	if len(engine) > 0 {
		engineBinary = engine[0]
	}
	required := []string{engineBinary, "kubectl"}

	missing := make([]string, 0, len(required))
	for _, tool := range required {
		if _, err := exec.LookPath(tool); err != nil {
			logger.Error("doctor check failed: missing required tool", "tool", tool, "error", err)
			missing = append(missing, tool)
			continue
		}
		logger.Info("doctor check ok", "tool", tool)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools missing from PATH: %s", strings.Join(missing, ", "))
	}

	return nil
}
