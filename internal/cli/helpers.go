package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/distribution/reference"
	shellwords "github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gantry-ci/gantry/internal/fetch"
	"github.com/gantry-ci/gantry/internal/plan"
	"github.com/gantry-ci/gantry/internal/run"
)

// resolveEngine determines the container engine invocation from
// GANTRY_ENGINE, which may carry a multi-word command such as "sudo podman".
func resolveEngine() ([]string, error) {
	var cfg baseEnv
	if err := parseEnv(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if strings.TrimSpace(cfg.Engine) == "" {
		return []string{plan.DefaultEngine}, nil
	}

	parts, err := shellwords.Parse(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("parsing GANTRY_ENGINE %q: %w", cfg.Engine, err)
	}
	if len(parts) == 0 {
		return []string{plan.DefaultEngine}, nil
	}
	return parts, nil
}

// validateImageRefs rejects tags that do not parse as image references.
func validateImageRefs(tags []string) error {
	for _, tag := range tags {
		if _, err := reference.ParseNormalizedNamed(tag); err != nil {
			return fmt.Errorf("invalid image reference %q: %w", tag, err)
		}
	}
	return nil
}

// resolveContentPath resolves a content URI to a local file path. Remote
// sources are fetched into a temporary file; the returned cleanup removes it
// and must be called once the path is no longer needed.
func resolveContentPath(ctx context.Context, logger *slog.Logger, raw string) (string, func(), error) {
	src, err := fetch.Parse(raw)
	if err != nil {
		return "", nil, err
	}
	if src.Local() {
		return src.LocalPath(), func() {}, nil
	}

	file, err := fetch.NewFetcher(logger).Materialize(ctx, src)
	if err != nil {
		return "", nil, err
	}
	return file.Path(), func() { _ = file.Close() }, nil
}

// printPlan writes the plan to the command's stdout as a YAML list, with
// registry passwords redacted. Empty plans print nothing.
func printPlan(cmd *cobra.Command, p plan.Plan) error {
	if len(p) == 0 {
		return nil
	}

	lines := make([]string, 0, len(p))
	for _, command := range p {
		lines = append(lines, command.Redacted())
	}

	out, err := yaml.Marshal(lines)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
	return err
}

// executePlan prints the plan when dryRun is set and runs it otherwise.
func executePlan(cmd *cobra.Command, logger *slog.Logger, p plan.Plan, dryRun bool) error {
	if dryRun {
		return printPlan(cmd, p)
	}
	return run.NewRunner(logger).Run(cmd.Context(), p)
}
