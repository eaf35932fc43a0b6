package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/gantry-ci/gantry/internal/cli"
	"github.com/gantry-ci/gantry/internal/logging"
	"github.com/gantry-ci/gantry/internal/run"
)

// main is the entry point for the gantry CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo, false)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(exitCode(err))
	}
}

// exitCode mirrors the exit status of a failed subprocess and reports 1 for
// every other failure, including subprocesses killed by a signal.
func exitCode(err error) int {
	var cmdErr *run.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}
	return 1
}
