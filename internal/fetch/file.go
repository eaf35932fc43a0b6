package fetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
)

// File is a scoped temporary file holding fully materialized content.
// Closing it deletes the file; Close is safe to call more than once.
type File struct {
	path   string
	closed bool
}

// Materialize drains the source's byte stream into a fresh temporary file.
// The temporary file exists before the stream is opened, and the copy
// completes before Materialize returns. The source is consumed either way:
// a second Materialize of the same Source fails.
func (f *Fetcher) Materialize(ctx context.Context, src *Source) (*File, error) {
	if src.spent {
		return nil, fmt.Errorf("source %q already consumed; temporary files are single-use", src.raw)
	}
	src.spent = true

	tmp, err := os.CreateTemp("", "gantry-*")
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}

	body, err := f.Open(ctx, src)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return nil, err
	}
	defer func() { _ = body.Close() }()

	written, err := io.Copy(tmp, body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return nil, fmt.Errorf("materialize %q: %w", src.raw, err)
	}

	f.logger.Debug("materialized content",
		"source", src.raw,
		"path", tmp.Name(),
		"size", humanize.Bytes(uint64(written)))

	return &File{path: tmp.Name()}, nil
}

// Path returns the location of the materialized file.
func (f *File) Path() string {
	return f.path
}

// Close deletes the temporary file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return os.Remove(f.path)
}
