// Package manifest discovers cluster manifest templates and renders them
// with environment bindings into a scoped output directory.
package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/gantry-ci/gantry/internal/env"
)

var (
	// ErrNoManifests indicates that discovery found nothing to deploy.
	// An empty deployment is a hard stop, never a silent success.
	ErrNoManifests = errors.New("no manifests found")

	// ErrDuplicateManifest indicates the same basename in two input
	// directories. Rendering flattens output into one directory, so a
	// duplicate would silently overwrite; it is rejected instead.
	ErrDuplicateManifest = errors.New("duplicate manifest name")
)

// renderableExtensions gates discovery to manifest file types.
var renderableExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// Renderer discovers and renders manifest templates.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

// Discover lists manifest files directly inside the given directories, in
// directory order. It does not recurse into subdirectories, and only files
// with a json/yaml/yml extension count.
func (r *Renderer) Discover(dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]string)

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read manifest directory %q: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if _, ok := renderableExtensions[ext]; !ok {
				continue
			}
			if prev, ok := seen[entry.Name()]; ok {
				return nil, fmt.Errorf("%w: %q appears in both %q and %q",
					ErrDuplicateManifest, entry.Name(), prev, dir)
			}
			seen[entry.Name()] = dir
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoManifests, strings.Join(dirs, ", "))
	}

	r.logger.Debug("discovered manifests", "count", len(files), "dirs", strings.Join(dirs, ", "))
	return files, nil
}

// Render executes every manifest template against the given variables and
// writes the outputs, same basenames, into a fresh temporary directory.
// The returned cleanup removes the directory; callers defer it around the
// apply invocation.
func (r *Renderer) Render(files []string, vars env.Vars) (string, func(), error) {
	outDir, err := os.MkdirTemp("", "gantry-manifests-*")
	if err != nil {
		return "", nil, fmt.Errorf("create render directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(outDir) }

	for _, file := range files {
		if err := r.renderOne(file, outDir, vars); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	return outDir, cleanup, nil
}

func (r *Renderer) renderOne(file, outDir string, vars env.Vars) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read manifest %q: %w", file, err)
	}

	name := filepath.Base(file)
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parse manifest template %q: %w", file, err)
	}

	outPath := filepath.Join(outDir, name)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create rendered manifest %q: %w", outPath, err)
	}

	if err := tmpl.Execute(out, vars); err != nil {
		_ = out.Close()
		return fmt.Errorf("render manifest %q: %w", file, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("write rendered manifest %q: %w", outPath, err)
	}

	r.logger.Debug("rendered manifest", "source", file, "output", outPath)
	return nil
}
