// Package css turns masonry geometry into CSS custom properties.
//
// This is the only place pixel values are rounded: the layout engine works
// in float64 throughout and hands its results here untouched.
package css

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/topicgrid/pkg/masonry"
)

// Custom property names understood by the topic list stylesheet.
const (
	VarNumColumns    = "--masonry-num-columns"
	VarGridSpacing   = "--masonry-grid-spacing"
	VarTallestColumn = "--masonry-tallest-column"
	VarColumnWidth   = "--masonry-column-width"

	VarHeight      = "--masonry-height"
	VarHeightAbove = "--masonry-height-above"
	VarColumnIndex = "--masonry-column-index"
)

// Var is a single custom property declaration.
type Var struct {
	Name  string
	Value string
}

// String renders the declaration without a trailing separator.
func (v Var) String() string { return v.Name + ": " + v.Value }

// Px rounds v half away from zero to whole pixels.
func Px(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64) + "px"
}

// Int rounds v to a bare integer.
func Int(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// ContainerVars returns the list-level properties for l.
func ContainerVars(l masonry.Layout) []Var {
	return []Var{
		{VarNumColumns, strconv.Itoa(l.Columns)},
		{VarGridSpacing, Px(l.GridSpacing)},
		{VarTallestColumn, Px(l.TallestColumn)},
		{VarColumnWidth, Px(l.ColumnWidth)},
	}
}

// ItemVars returns the per-item properties for p.
func ItemVars(p masonry.Placement) []Var {
	return []Var{
		{VarHeight, Px(p.Height)},
		{VarHeightAbove, Px(p.HeightAbove)},
		{VarColumnIndex, strconv.Itoa(p.Column)},
	}
}

// Style joins vars into an inline style attribute value. Every declaration
// is terminated with "; " except the last, which ends in ";".
func Style(vars []Var) string {
	if len(vars) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range vars {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.String())
		b.WriteByte(';')
	}
	return b.String()
}

// Params are the container geometry as named integers, for consumers that
// do not speak CSS.
type Params struct {
	NumColumns    int `json:"numColumns"`
	GridSpacing   int `json:"gridSpacing"`
	TallestColumn int `json:"tallestColumn"`
	ColumnWidth   int `json:"columnWidth"`
}

// ItemParams are one placement as named integers.
type ItemParams struct {
	ID          string `json:"id"`
	Height      int    `json:"height"`
	HeightAbove int    `json:"heightAbove"`
	ColumnIndex int    `json:"columnIndex"`
}

// ContainerParams rounds the container geometry of l.
func ContainerParams(l masonry.Layout) Params {
	return Params{
		NumColumns:    l.Columns,
		GridSpacing:   round(l.GridSpacing),
		TallestColumn: round(l.TallestColumn),
		ColumnWidth:   round(l.ColumnWidth),
	}
}

// PlacementParams rounds p.
func PlacementParams(p masonry.Placement) ItemParams {
	return ItemParams{
		ID:          p.ItemID,
		Height:      round(p.Height),
		HeightAbove: round(p.HeightAbove),
		ColumnIndex: p.Column,
	}
}

func round(v float64) int { return int(math.Round(v)) }
