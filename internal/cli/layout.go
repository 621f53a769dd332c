package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/config"
	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/pipeline"
	"github.com/matzehuels/topicgrid/pkg/render/sink"
)

// layoutFlags holds the flags shared by layout, render and preview.
type layoutFlags struct {
	width    float64
	category string
	filter   string
	noCache  bool
	refresh  bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&f.width, "width", "w", defaultWidth, "container width in pixels")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "only lay out topics in this category")
	cmd.Flags().StringVar(&f.filter, "filter", "", "fuzzy title filter; matches are laid out best first")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}

// options loads the config file and builds pipeline options from it and
// the flags.
func (f *layoutFlags) options(cmd *cobra.Command, c *CLI) (config.Config, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return cfg, pipeline.Options{}, err
	}
	opts := baseOptions(cfg, f.category)
	opts.Width = f.width
	opts.Filter = f.filter
	opts.Refresh = f.refresh
	opts.Logger = loggerFromContext(cmd.Context())
	return cfg, opts, nil
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [topics]",
		Short: "Compute the masonry layout of a topic list",
		Long: `Compute the masonry layout of a topic list.

The input is a JSON topic list, a saved HTML topic list, or a SQLite store
written by 'import'. The output is a JSON document with the container and
per-topic CSS variables (same format as 'render -f json').

Results are cached, keyed by the topics and every layout parameter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, opts, err := flags.options(cmd, c)
			if err != nil {
				return err
			}
			opts.Mode = display.Masonry
			return c.runLayout(cmd.Context(), args[0], cfg, opts, flags.noCache, output, raw)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&raw, "raw", false, "include unrounded geometry")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, cfg config.Config, opts pipeline.Options, noCache bool, output string, raw bool) error {
	ts, err := loadTopics(ctx, input, opts.Category)
	if err != nil {
		return fmt.Errorf("load topics %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	selected := pipeline.Select(ts, opts)
	l, hit, err := runner.LayoutWithCacheInfo(ctx, selected, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	data, err := json.MarshalIndent(sink.NewDocument(l, raw), "", "  ")
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = outputBase(input, "") + ".layout.json"
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	if l.Degenerate {
		printWarning("Container is narrower than one column (%.0fpx < %.0fpx)", opts.Width, opts.Config.TargetColumnWidth)
	}
	printSuccess("Layout complete")
	printFile(path)
	printStats(layoutStats{topics: len(selected), columns: l.Columns, degenerate: l.Degenerate, cached: hit})
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
