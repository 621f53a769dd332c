package masonry

import (
	"math"
	"slices"
)

// Size is the intrinsic size of a thumbnail in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Item is an entry to place. A nil Thumbnail, or one with a non-positive
// side, means the item has no intrinsic dimensions.
type Item struct {
	ID        string `json:"id"`
	Thumbnail *Size  `json:"thumbnail,omitempty"`
}

// HasDimensions reports whether the item carries a usable width and height.
func (it Item) HasDimensions() bool {
	return it.Thumbnail != nil && it.Thumbnail.Width > 0 && it.Thumbnail.Height > 0
}

// Placement is the layout result for one item.
type Placement struct {
	ItemID      string  `json:"item_id"`
	Column      int     `json:"column"`
	Height      float64 `json:"height"`
	HeightAbove float64 `json:"height_above"`
}

// Layout is the result of one layout pass.
type Layout struct {
	ContainerWidth float64 `json:"container_width"`
	Columns        int     `json:"columns"`
	ColumnWidth    float64 `json:"column_width"`
	GridSpacing    float64 `json:"grid_spacing"`
	TallestColumn  float64 `json:"tallest_column"`

	// ColumnHeights holds the final accumulator of every column, trailing
	// spacing included.
	ColumnHeights []float64   `json:"column_heights"`
	Placements    []Placement `json:"placements"`

	// Degenerate is set when the container was narrower than one target
	// column and the column count had to be clamped to 1.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Index returns the placements keyed by item ID. Items sharing an ID keep
// the placement of their last occurrence.
func (l Layout) Index() map[string]Placement {
	idx := make(map[string]Placement, len(l.Placements))
	for _, p := range l.Placements {
		idx[p.ItemID] = p
	}
	return idx
}

// Columns returns floor(width / TargetColumnWidth), clamped to at least 1.
// degenerate reports whether the clamp was needed.
func Columns(width float64, cfg Config) (n int, degenerate bool) {
	cfg = cfg.sanitized()
	n = int(math.Floor(width / cfg.TargetColumnWidth))
	if n < 1 {
		return 1, true
	}
	return n, false
}

// ColumnWidth spreads width over columns, minus the gaps between them.
func ColumnWidth(width float64, columns int, cfg Config) float64 {
	if columns < 1 {
		columns = 1
	}
	cfg = cfg.sanitized()
	return (width - float64(columns-1)*cfg.GridSpacing) / float64(columns)
}

// Aspect returns the width/height ratio used to size item, falling back to
// DefaultAspect and never going below MinAspect.
func Aspect(item Item, cfg Config) float64 {
	cfg = cfg.sanitized()
	aspect := cfg.DefaultAspect
	if item.HasDimensions() {
		aspect = item.Thumbnail.Width / item.Thumbnail.Height
	}
	return math.Max(aspect, cfg.MinAspect)
}

// Compute lays out items in a container of the given width.
//
// It returns ok=false without doing any work when width is not positive:
// the container has not been measured yet and the caller should keep
// whatever it rendered before. Zero items produce a valid, empty layout.
func Compute(cfg Config, width float64, items []Item) (Layout, bool) {
	if !(width > 0) || math.IsInf(width, 0) {
		return Layout{}, false
	}
	cfg = cfg.sanitized()

	columns, degenerate := Columns(width, cfg)
	columnWidth := ColumnWidth(width, columns, cfg)
	heights := make([]float64, columns)

	placements := make([]Placement, 0, len(items))
	for _, item := range items {
		col := shortest(heights)
		h := columnWidth/Aspect(item, cfg) + cfg.TitleReserveHeight

		placements = append(placements, Placement{
			ItemID:      item.ID,
			Column:      col,
			Height:      h,
			HeightAbove: heights[col],
		})
		heights[col] += h + cfg.GridSpacing
	}

	return Layout{
		ContainerWidth: width,
		Columns:        columns,
		ColumnWidth:    columnWidth,
		GridSpacing:    cfg.GridSpacing,
		TallestColumn:  slices.Max(heights),
		ColumnHeights:  heights,
		Placements:     placements,
		Degenerate:     degenerate,
	}, true
}

// shortest returns the index of the first minimum.
func shortest(heights []float64) int {
	best := 0
	for i := 1; i < len(heights); i++ {
		if heights[i] < heights[best] {
			best = i
		}
	}
	return best
}
