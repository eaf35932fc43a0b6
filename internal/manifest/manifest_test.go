package manifest

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantry-ci/gantry/internal/env"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(slog.New(slog.DiscardHandler))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverFiltersByExtensionAndDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "kind: A\n")
	writeFile(t, filepath.Join(dir, "b.json"), "{}\n")
	writeFile(t, filepath.Join(dir, "readme.txt"), "not a manifest\n")
	writeFile(t, filepath.Join(dir, "nested", "c.yaml"), "kind: C\n")

	files, err := testRenderer(t).Discover([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
	}, files)
}

func TestDiscoverAcrossDirectories(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "deploy.yaml"), "kind: Deployment\n")
	writeFile(t, filepath.Join(second, "service.yml"), "kind: Service\n")

	files, err := testRenderer(t).Discover([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(first, "deploy.yaml"),
		filepath.Join(second, "service.yml"),
	}, files)
}

func TestDiscoverEmptyIsError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "readme.txt"), "nothing deployable\n")

	_, err := testRenderer(t).Discover([]string{dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoManifests)
}

func TestDiscoverRejectsDuplicateBasenames(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "deploy.yaml"), "kind: A\n")
	writeFile(t, filepath.Join(second, "deploy.yaml"), "kind: B\n")

	_, err := testRenderer(t).Discover([]string{first, second})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateManifest)
	assert.Contains(t, err.Error(), "deploy.yaml")
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := testRenderer(t).Discover([]string{filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
}

func TestRenderSubstitutesVariables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deploy.yaml"), "image: myapp:{{ .IMAGE_TAG }}\n")

	r := testRenderer(t)
	files, err := r.Discover([]string{dir})
	require.NoError(t, err)

	outDir, cleanup, err := r.Render(files, env.Vars{"IMAGE_TAG": "v42"})
	require.NoError(t, err)
	defer cleanup()

	got, err := os.ReadFile(filepath.Join(outDir, "deploy.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "image: myapp:v42\n", string(got))
}

func TestRenderSprigFunctions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.yaml"), "name: {{ .APP | upper }}\nreplicas: {{ default \"1\" .REPLICAS }}\n")

	r := testRenderer(t)
	files, err := r.Discover([]string{dir})
	require.NoError(t, err)

	outDir, cleanup, err := r.Render(files, env.Vars{"APP": "web"})
	require.NoError(t, err)
	defer cleanup()

	got, err := os.ReadFile(filepath.Join(outDir, "app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "name: WEB\nreplicas: 1\n", string(got))
}

func TestRenderUndefinedVariableUsesEngineDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.yaml"), "value: {{ .UNDEFINED }}\n")

	r := testRenderer(t)
	files, err := r.Discover([]string{dir})
	require.NoError(t, err)

	outDir, cleanup, err := r.Render(files, env.Vars{})
	require.NoError(t, err)
	defer cleanup()

	got, err := os.ReadFile(filepath.Join(outDir, "app.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "value: <no value>\n", string(got))
}

func TestRenderCleanupRemovesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "app.yaml"), "kind: App\n")

	r := testRenderer(t)
	files, err := r.Discover([]string{dir})
	require.NoError(t, err)

	outDir, cleanup, err := r.Render(files, env.Vars{})
	require.NoError(t, err)
	assert.DirExists(t, outDir)

	cleanup()
	assert.NoDirExists(t, outDir)
}

func TestRenderBadTemplateFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "broken: {{ .UNCLOSED\n")

	r := testRenderer(t)
	files, err := r.Discover([]string{dir})
	require.NoError(t, err)

	_, _, err = r.Render(files, env.Vars{})
	require.Error(t, err)
}
