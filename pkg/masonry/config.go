package masonry

import (
	"math"

	"github.com/matzehuels/topicgrid/pkg/errors"
)

// Default tunables.
const (
	DefaultTargetColumnWidth  = 300.0
	DefaultGridSpacing        = 50.0
	DefaultTitleReserveHeight = 76.0
	DefaultAspect             = 1.3
	DefaultMinAspect          = 0.7
)

// Config holds the immutable tunables of the layout.
// All lengths are in pixels.
type Config struct {
	// TargetColumnWidth is the width a column aims for; the actual width
	// stretches so the columns fill the container.
	TargetColumnWidth float64 `json:"target_column_width" toml:"target_column_width"`

	// GridSpacing is the gap between columns and between stacked items.
	GridSpacing float64 `json:"grid_spacing" toml:"grid_spacing"`

	// TitleReserveHeight is added below every thumbnail for the topic title.
	TitleReserveHeight float64 `json:"title_reserve_height" toml:"title_reserve_height"`

	// DefaultAspect is used for items without thumbnail dimensions.
	DefaultAspect float64 `json:"default_aspect" toml:"default_aspect"`

	// MinAspect caps how tall an item can get relative to its width.
	MinAspect float64 `json:"min_aspect" toml:"min_aspect"`
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		TargetColumnWidth:  DefaultTargetColumnWidth,
		GridSpacing:        DefaultGridSpacing,
		TitleReserveHeight: DefaultTitleReserveHeight,
		DefaultAspect:      DefaultAspect,
		MinAspect:          DefaultMinAspect,
	}
}

// Validate checks every tunable against its bound.
func (c Config) Validate() error {
	switch {
	case !positive(c.TargetColumnWidth):
		return errors.New(errors.ErrCodeInvalidConfig, "target column width must be > 0, got %v", c.TargetColumnWidth)
	case !nonNegative(c.GridSpacing):
		return errors.New(errors.ErrCodeInvalidConfig, "grid spacing must be >= 0, got %v", c.GridSpacing)
	case !nonNegative(c.TitleReserveHeight):
		return errors.New(errors.ErrCodeInvalidConfig, "title reserve height must be >= 0, got %v", c.TitleReserveHeight)
	case !positive(c.DefaultAspect):
		return errors.New(errors.ErrCodeInvalidConfig, "default aspect must be > 0, got %v", c.DefaultAspect)
	case !positive(c.MinAspect):
		return errors.New(errors.ErrCodeInvalidConfig, "min aspect must be > 0, got %v", c.MinAspect)
	}
	return nil
}

// sanitized replaces out-of-range tunables with their defaults so Compute
// never divides by zero, whatever it is handed.
func (c Config) sanitized() Config {
	d := DefaultConfig()
	if !positive(c.TargetColumnWidth) {
		c.TargetColumnWidth = d.TargetColumnWidth
	}
	if !nonNegative(c.GridSpacing) {
		c.GridSpacing = d.GridSpacing
	}
	if !nonNegative(c.TitleReserveHeight) {
		c.TitleReserveHeight = d.TitleReserveHeight
	}
	if !positive(c.DefaultAspect) {
		c.DefaultAspect = d.DefaultAspect
	}
	if !positive(c.MinAspect) {
		c.MinAspect = d.MinAspect
	}
	return c
}

func positive(v float64) bool    { return v > 0 && !math.IsInf(v, 0) }
func nonNegative(v float64) bool { return v >= 0 && !math.IsInf(v, 0) }
