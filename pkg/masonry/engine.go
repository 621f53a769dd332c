package masonry

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicgrid/pkg/observability"
)

// Engine runs layout passes with a fixed, validated configuration.
//
// Engine holds no per-pass state, so one Engine may serve many goroutines.
type Engine struct {
	cfg    Config
	logger *log.Logger
}

// NewEngine validates cfg and returns an engine for it.
// A nil logger discards output.
func NewEngine(cfg Config, logger *log.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{cfg: cfg, logger: logger}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout runs one pass. See [Compute] for the meaning of ok.
func (e *Engine) Layout(ctx context.Context, width float64, items []Item) (Layout, bool) {
	hooks := observability.Layout()
	if !(width > 0) {
		hooks.OnLayoutSkipped(ctx, "container width not set")
		e.logger.Debug("skipping masonry layout", "width", width)
		return Layout{}, false
	}

	start := time.Now()
	hooks.OnLayoutStart(ctx, width, len(items))

	l, ok := Compute(e.cfg, width, items)
	if !ok {
		hooks.OnLayoutSkipped(ctx, "container width not usable")
		return Layout{}, false
	}

	elapsed := time.Since(start)
	hooks.OnLayoutComplete(ctx, l.Columns, elapsed)

	if l.Degenerate {
		e.logger.Warn("container narrower than one column, using a single column",
			"width", width,
			"target_column_width", e.cfg.TargetColumnWidth)
	}
	e.logger.Debug("computed masonry layout",
		"items", len(items),
		"columns", l.Columns,
		"column_width", l.ColumnWidth,
		"tallest", l.TallestColumn,
		"duration", elapsed)

	return l, true
}
