package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gantry-ci/gantry/internal/ghoutput"
	"github.com/gantry-ci/gantry/internal/plan"
)

// newBuildCommand creates the "build" subcommand that builds an image from
// the Dockerfile in the current directory and optionally retags, caches, and
// archives it. Arguments after "--" are passed to the engine build verbatim.
func newBuildCommand(opts *Options) *cobra.Command {
	var (
		tag        string
		extraTags  []string
		cacheFrom  string
		storeImage string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "build --tag TAG [flags] [-- BUILD_ARGS...]",
		Short: "Build a container image from the current directory",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())

			tags := append([]string{tag}, extraTags...)
			if err := validateImageRefs(tags); err != nil {
				return err
			}

			cachePath := ""
			if cacheFrom != "" {
				path, cleanup, err := resolveContentPath(cmd.Context(), logger, cacheFrom)
				if err != nil {
					logger.Warn("cache archive unavailable; building without it", "source", cacheFrom, "error", err)
				} else {
					defer cleanup()
					cachePath = path
				}
			}

			planner := plan.NewPlanner(logger, opts.Engine, nil)
			p, err := planner.Build(plan.BuildParams{
				Tag:        tag,
				ExtraTags:  extraTags,
				CacheFrom:  cachePath,
				StoreImage: storeImage,
				BuildArgs:  args,
			})
			if err != nil {
				return err
			}

			if err := executePlan(cmd, logger, p, dryRun); err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			return ghoutput.Write(logger, map[string]string{
				"image": tag,
				"tags":  strings.Join(tags, " "),
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Primary image tag (required)")
	cmd.Flags().StringArrayVar(&extraTags, "extra-tag", nil, "Additional tag applied after the build (repeatable)")
	cmd.Flags().StringVar(&cacheFrom, "cache-from", "", "Image archive to load before building (path, http(s):// or s3:// URI)")
	cmd.Flags().StringVar(&storeImage, "store-image", "", "Save the built image to this archive path")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running it")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}
