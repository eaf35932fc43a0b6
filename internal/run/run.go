// Package run executes plans as subprocesses, strictly in order.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/gantry-ci/gantry/internal/logging"
	"github.com/gantry-ci/gantry/internal/plan"
)

// CommandError reports a planned invocation that failed, carrying the
// argument vector and the subprocess exit status. ExitCode is -1 when the
// process never ran or was killed by a signal.
type CommandError struct {
	Argv     plan.Command
	ExitCode int
	Err      error
}

// Error renders the failure with the password-redacted command line.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Argv.Redacted(), e.ExitCode)
}

// Unwrap exposes the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes plans. Subprocess output streams into the logger line by
// line.
type Runner struct {
	logger *slog.Logger
}

// NewRunner constructs a Runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes every command in the plan in order, synchronously, waiting
// for each to complete before starting the next. The first failure stops
// the run immediately; earlier successful steps are not rolled back.
func (r *Runner) Run(ctx context.Context, p plan.Plan) error {
	for _, command := range p {
		r.logger.Info("running command", "cmd", command.Redacted())

		cmd := exec.CommandContext(ctx, command[0], command[1:]...)
		cmd.Stdout = logging.NewWriter(r.logger, "stdout")
		cmd.Stderr = logging.NewWriter(r.logger, "stderr")

		if err := cmd.Run(); err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			return &CommandError{Argv: command, ExitCode: exitCode, Err: err}
		}
	}
	return nil
}
