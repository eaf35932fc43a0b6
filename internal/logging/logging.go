// Package logging provides helpers for structured, colorized logging across the application.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// LevelFromFlags maps the global quiet/verbose flags onto a slog level.
// Quiet wins over any verbosity count.
func LevelFromFlags(quiet bool, verbosity int) slog.Level {
	if quiet {
		return slog.LevelWarn
	}
	if verbosity >= 1 {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger constructs a slog.Logger configured with a tint handler.
// When addSource is true, records carry the file:line they were logged from.
func NewLogger(w io.Writer, level slog.Level, addSource bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:     level,
		AddSource: addSource,
	})

	return slog.New(handler)
}
