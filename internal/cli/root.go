// Package cli defines the command-line interface for gantry.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	Quiet     bool
	Verbosity int
	Engine    []string
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, slog.LevelInfo, false)
	}

	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gantry",
		Short: "gantry is a container build and deploy pipeline helper",
		Long:  "gantry turns image build, tag, save, load, and push requests and Kubernetes manifest deployments into ordered container-engine command plans and executes them.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.LevelFromFlags(opts.Quiet, opts.Verbosity)
			logger = logging.NewLogger(os.Stderr, level, opts.Verbosity >= 2)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))

			engine, err := resolveEngine()
			if err != nil {
				return err
			}
			opts.Engine = engine

			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Only log warnings and errors")
	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(
		newBuildCommand(opts),
		newTagCommand(opts),
		newSaveCommand(opts),
		newLoadCommand(opts),
		newPushCommand(opts),
		newDeployCommand(opts),
		newDoctorCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, slog.LevelInfo, false)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, slog.LevelInfo, false)
}
