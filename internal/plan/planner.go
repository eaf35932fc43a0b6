package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gantry-ci/gantry/internal/registry"
)

// ErrInvalidPath indicates an output path that cannot hold a saved image.
var ErrInvalidPath = errors.New("invalid output path")

// DefaultEngine is the container engine used when no override is configured.
const DefaultEngine = "docker"

// Planner builds container-engine plans. Its methods never run anything;
// the only side effects are the declared idempotent checks (stat for load,
// MkdirAll for save) and the cloud auth token fetch for push.
type Planner struct {
	logger *slog.Logger
	engine []string
	auth   registry.TokenProvider
}

// NewPlanner constructs a Planner for the given engine invocation (e.g.
// ["docker"] or ["sudo", "podman"]). The token provider may be nil when no
// cloud registry auth will be requested.
func NewPlanner(logger *slog.Logger, engine []string, auth registry.TokenProvider) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	if len(engine) == 0 {
		engine = []string{DefaultEngine}
	}
	return &Planner{logger: logger, engine: engine, auth: auth}
}

// command prefixes the engine invocation onto the given arguments.
func (p *Planner) command(args ...string) Command {
	argv := make([]string, 0, len(p.engine)+len(args))
	argv = append(argv, p.engine...)
	argv = append(argv, args...)
	return Command(argv)
}

// BuildParams carries every option recognized by Build.
type BuildParams struct {
	// Tag is the primary image tag, applied by the build invocation itself.
	Tag string
	// ExtraTags are applied after the build, in order.
	ExtraTags []string
	// CacheFrom is an optional image archive to load before building.
	CacheFrom string
	// StoreImage is an optional path to save the built image archive to.
	StoreImage string
	// BuildArgs are appended verbatim to the build invocation.
	BuildArgs []string
}

// Build composes the full build pipeline: an optional cache load, the build
// itself, extra tagging, and an optional save. Omitted options never shift
// the relative order of the remaining steps.
func (p *Planner) Build(params BuildParams) (Plan, error) {
	var out Plan

	if params.CacheFrom != "" {
		out = append(out, p.Load(params.CacheFrom)...)
	}

	build := []string{"build", "-t", params.Tag}
	build = append(build, params.BuildArgs...)
	build = append(build, ".")
	out = append(out, p.command(build...))

	if len(params.ExtraTags) > 0 {
		out = append(out, p.Tag(params.Tag, params.ExtraTags)...)
	}

	if params.StoreImage != "" {
		save, err := p.Save(params.Tag, params.StoreImage)
		if err != nil {
			return nil, err
		}
		out = append(out, save...)
	}

	return out, nil
}

// Tag retags the source image once per entry in newTags, preserving input
// order. An empty newTags yields an empty plan, not an error.
func (p *Planner) Tag(tag string, newTags []string) Plan {
	out := make(Plan, 0, len(newTags))
	for _, newTag := range newTags {
		out = append(out, p.command("tag", tag, newTag))
	}
	return out
}

// Save plans writing the image to an archive at filePath. The parent
// directory is created immediately: creation is idempotent and
// non-destructive, and deferring it to execution would only delay the
// failure. MkdirAll errors propagate as-is.
func (p *Planner) Save(tag, filePath string) (Plan, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, fmt.Errorf("%w: save target is empty", ErrInvalidPath)
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create parent directory %q: %w", dir, err)
	}

	return Plan{p.command("save", "-o", filePath, tag)}, nil
}

// Load plans loading an image archive. A missing archive is expected (cold
// caches in CI), so it logs a warning and yields an empty plan rather than
// an error.
func (p *Planner) Load(filePath string) Plan {
	if _, err := os.Stat(filePath); err != nil {
		p.logger.Warn("image archive not found; skipping load", "path", filePath, "error", err)
		return nil
	}
	return Plan{p.command("load", "-i", filePath)}
}

// PushParams carries every option recognized by Push.
type PushParams struct {
	// Tags are pushed one invocation each, in order.
	Tags []string
	// Username and Password log in against the engine's default registry
	// when both are set.
	Username string
	Password string
	// CloudAuth prepends a login resolved from the cloud registry
	// authorization endpoint.
	CloudAuth bool
	// PushArgs are appended verbatim to every push invocation.
	PushArgs []string
}

// Push plans registry logins followed by one push per tag. The cloud auth
// login comes first, then the explicit-credential login, then the pushes.
// Empty tags push nothing, but the logins still run.
func (p *Planner) Push(ctx context.Context, params PushParams) (Plan, error) {
	var out Plan

	if params.CloudAuth {
		if p.auth == nil {
			return nil, errors.New("cloud registry auth requested but no token provider is configured")
		}
		login, err := p.auth.Login(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, p.command("login", "-u", login.Username, "-p", login.Password, login.Server))
	}

	if params.Username != "" && params.Password != "" {
		out = append(out, p.command("login", "-u", params.Username, "-p", params.Password))
	}

	for _, tag := range params.Tags {
		push := []string{"push", tag}
		push = append(push, params.PushArgs...)
		out = append(out, p.command(push...))
	}

	return out, nil
}
