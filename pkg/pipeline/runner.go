package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicgrid/pkg/cache"
	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// Runner executes pipeline stages with caching. It keeps no per-run state.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs select → layout → render.
func (r *Runner) Execute(ctx context.Context, ts []topics.Topic, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	selected := Select(ts, opts)
	result := &Result{Topics: selected}
	result.Stats.TopicCount = len(selected)

	if opts.Mode == display.Masonry {
		start := time.Now()
		l, hit, err := r.LayoutWithCacheInfo(ctx, selected, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Layout = &l
		result.Stats.Columns = l.Columns
		result.Stats.LayoutTime = time.Since(start)
		result.CacheInfo.LayoutHit = hit

		r.Logger.Info("computed layout",
			"topics", len(selected),
			"columns", l.Columns,
			"cached", hit,
			"duration", result.Stats.LayoutTime)
	}

	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, selected, result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"mode", opts.Mode,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Select applies the category and the fuzzy filter.
func Select(ts []topics.Topic, opts Options) []topics.Topic {
	return topics.Filter(topics.InCategory(ts, opts.Category), opts.Filter)
}

// LayoutWithCacheInfo computes the masonry layout for ts and reports whether
// it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ts []topics.Topic, opts Options) (masonry.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return masonry.Layout{}, false, err
	}

	items := topics.Items(ts)
	itemsHash, err := cache.HashJSON(items)
	if err != nil {
		return masonry.Layout{}, false, fmt.Errorf("hash items: %w", err)
	}
	key := r.Keyer.LayoutKey(itemsHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached masonry.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "error", err)
		}
	}

	engine, err := masonry.NewEngine(opts.Config, opts.Logger)
	if err != nil {
		return masonry.Layout{}, false, err
	}
	l, ok := engine.Layout(ctx, opts.Width, items)
	if !ok {
		return masonry.Layout{}, false, errors.New(errors.ErrCodeInvalidInput, "container width not set (got %v)", opts.Width)
	}

	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("layout cache write failed", "error", err)
		}
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache flag.
func (r *Runner) Layout(ctx context.Context, ts []topics.Topic, opts Options) (masonry.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, ts, opts)
	return l, err
}

// RenderWithCacheInfo renders every requested format. The flag is true only
// when all artifacts came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ts []topics.Topic, l *masonry.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	layoutHash, err := cache.HashJSON(l)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout: %w", err)
	}
	topicsHash, err := cache.HashJSON(ts)
	if err != nil {
		return nil, false, fmt.Errorf("hash topics: %w", err)
	}
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, topicsHash))
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFormats(ctx, ts, l, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keyFor(format), data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "error", err)
		}
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache flag.
func (r *Runner) Render(ctx context.Context, ts []topics.Topic, l *masonry.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, ts, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
