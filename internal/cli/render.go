package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/config"
	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		formats string
		mode    string
		mobile  bool
		scale   float64
	)

	cmd := &cobra.Command{
		Use:   "render [topics]",
		Short: "Render a topic list in its display mode",
		Long: `Render a topic list in its display mode.

The display mode comes from the config file (per category, falling back to
the default) unless --mode is given. Masonry mode computes a layout first;
grid and list modes only change the markup.

Formats:
  html  topic list markup with display classes and inline CSS variables
  css   masonry stylesheet keyed by topic id
  json  rounded layout document
  svg   diagram of the columns
  png   rasterized svg (needs rsvg-convert)
  pdf   svg as PDF (needs rsvg-convert)

Every format except html needs masonry mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := flags.options(cmd, c)
			if err != nil {
				return err
			}
			if mode != "" {
				m, err := display.ParseMode(mode)
				if err != nil {
					return err
				}
				opts.Mode = m
			}
			opts.Formats = pipeline.ParseFormats(formats)
			opts.Mobile = mobile
			opts.Scale = scale
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, opts, flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): html (default), css, json, svg, png, pdf (comma-separated)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "display mode: masonry, grid, list, none (default: from config)")
	cmd.Flags().BoolVar(&mobile, "mobile", false, "render mobile markup")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "png scale factor")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, cfg config.Config, opts pipeline.Options, noCache bool, output string) error {
	ts, err := loadTopics(ctx, input, opts.Category)
	if err != nil {
		return fmt.Errorf("load topics %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinner(ctx, fmt.Sprintf("Rendering %d topics in %s mode...", len(ts), opts.Mode))
	sp.Start()

	result, err := runner.Execute(ctx, ts, opts)
	if err != nil {
		sp.StopWithError("Render failed")
		return err
	}
	sp.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(input, outputBase(input, output), result.Artifacts)
	if err != nil {
		return err
	}

	if result.Layout != nil && result.Layout.Degenerate {
		printWarning("Container is narrower than one column (%.0fpx)", opts.Width)
	}
	printSuccess("Rendered %s mode", opts.Mode)
	for _, p := range paths {
		printFile(p)
	}
	printStats(layoutStats{
		topics:     result.Stats.TopicCount,
		columns:    result.Stats.Columns,
		degenerate: result.Layout != nil && result.Layout.Degenerate,
		cached:     result.CacheInfo.RenderHit,
	})
	return nil
}

// writeArtifacts writes each artifact to base.<format> and returns the
// paths in format order. A path that would overwrite input gets a
// ".layout" infix instead.
func writeArtifacts(input, base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	slices.Sort(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if filepath.Clean(path) == filepath.Clean(input) {
			path = base + ".layout." + f
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
