package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards subprocess output to slog.
type Writer struct {
	logger *slog.Logger
	stream string
}

// NewWriter constructs a Writer bound to the provided logger. The stream name
// (e.g. "stdout", "stderr") is attached to every record.
func NewWriter(logger *slog.Logger, stream string) *Writer {
	return &Writer{logger: logger, stream: stream}
}

// Write logs the given bytes line by line at info level. A single Write may
// carry several lines when the subprocess flushes them together.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger != nil {
		for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
			if line == "" {
				continue
			}
			w.logger.Info("command output", "stream", w.stream, "line", line)
		}
	}
	return len(p), nil
}
