// Package cli implements the topicgrid command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicgrid/pkg/buildinfo"
	"github.com/matzehuels/topicgrid/pkg/cache"
	"github.com/matzehuels/topicgrid/pkg/config"
	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/pipeline"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "topicgrid"

	// defaultWidth is the container width used when --width is not given.
	defaultWidth = 1200
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Topicgrid lays out topic lists as masonry grids",
		Long: `Topicgrid computes masonry layouts for topic lists with thumbnails:
column count, per-item height and vertical offset for a given container width.
It renders the result as HTML, CSS, JSON, SVG, PNG or PDF, and serves the same
pipeline over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/topicgrid/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the cache backend named in cfg. A file cache that cannot
// find a home directory degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}

	switch cfg.Cache.Backend {
	case config.BackendNull:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c.Logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   appName + ":",
		})
	case config.BackendMongo:
		c.Logger.Debug("using mongo cache", "uri", cfg.Cache.MongoURI)
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:      cfg.Cache.MongoURI,
			Database: cfg.Cache.MongoDatabase,
		})
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Topic Sources
// =============================================================================

// loadTopics reads topics from a JSON file, a saved HTML topic list or a
// SQLite store, chosen by extension. category only narrows store reads;
// the pipeline applies it again for the other sources.
func loadTopics(ctx context.Context, path, category string) ([]topics.Topic, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "topic store not found: %s", path)
		}
		store, err := topics.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", path, err)
		}
		defer store.Close()
		return store.List(ctx, category)
	case ".html", ".htm":
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "topic list not found: %s", path)
		}
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ts, err := topics.ReadHTML(f)
		if err != nil {
			return nil, err
		}
		return ts, topics.Normalize(ts)
	default:
		ts, err := topics.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ts, topics.Normalize(ts)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file.
func baseOptions(cfg config.Config, category string) pipeline.Options {
	return pipeline.Options{
		Width:    defaultWidth,
		Config:   cfg.Masonry,
		Mode:     cfg.Display.Resolve(category),
		Category: category,
	}
}

// outputBase derives the base output path from the input file.
func outputBase(input, output string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
