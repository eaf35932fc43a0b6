package ghoutput

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestWriteAppendsSortedOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("existing=1\n"), 0o600))
	t.Setenv("GITHUB_OUTPUT", path)

	err := Write(testLogger(), map[string]string{
		"tags":  "v1 v2",
		"image": "myapp:1",
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing=1\nimage=myapp:1\ntags=v1 v2\n", string(content))
}

func TestWriteSanitizesNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	t.Setenv("GITHUB_OUTPUT", path)

	err := Write(testLogger(), map[string]string{"notes": "line1\r\nline2"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notes=line1%0D%0Aline2\n", string(content))
}

func TestWriteSkipsBlankKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	t.Setenv("GITHUB_OUTPUT", path)

	err := Write(testLogger(), map[string]string{"  ": "ignored", "kept": "yes"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "kept=yes\n", string(content))
}

func TestWriteOutsideWorkflowIsNoop(t *testing.T) {
	t.Setenv("GITHUB_OUTPUT", "")

	require.NoError(t, Write(testLogger(), map[string]string{"image": "myapp:1"}))
}

func TestWriteEmptyValuesIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	t.Setenv("GITHUB_OUTPUT", path)

	require.NoError(t, Write(testLogger(), nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(content))
}
