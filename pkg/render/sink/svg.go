package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

const (
	svgFontFamily = "-apple-system, 'Segoe UI', Helvetica, Arial, sans-serif"
	svgFontSize   = 14.0
	svgCharWidth  = 0.55 // average glyph width as a fraction of font size
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	titleReserve float64
	topics       map[string]topics.Topic
}

// WithTitleReserve sets the band at the bottom of each box kept for the
// title. Default masonry.DefaultTitleReserveHeight.
func WithTitleReserve(h float64) SVGOption { return func(r *svgRenderer) { r.titleReserve = h } }

// WithTopics labels boxes with topic titles.
func WithTopics(ts []topics.Topic) SVGOption {
	return func(r *svgRenderer) {
		r.topics = make(map[string]topics.Topic, len(ts))
		for _, t := range ts {
			r.topics[t.ID] = t
		}
	}
}

// RenderSVG draws every placement of l as a box: thumbnail area on top,
// title band below.
func RenderSVG(l masonry.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{titleReserve: masonry.DefaultTitleReserveHeight}
	for _, opt := range opts {
		opt(&r)
	}

	width := math.Max(l.ContainerWidth, 1)
	height := math.Max(l.TallestColumn-l.GridSpacing, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <style>.tile{fill:#f4f4f4;stroke:#c8c8c8}.thumb{fill:#dde6ef}.title{fill:#222}</style>` + "\n")

	for _, p := range l.Placements {
		x := float64(p.Column) * (l.ColumnWidth + l.GridSpacing)
		y := p.HeightAbove
		thumbH := math.Max(p.Height-r.titleReserve, 0)

		fmt.Fprintf(&buf, `  <g id="topic-%s">`+"\n", escapeXML(p.ItemID))
		fmt.Fprintf(&buf, `    <rect class="tile" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4"/>`+"\n",
			x, y, l.ColumnWidth, p.Height)
		if thumbH > 0 {
			fmt.Fprintf(&buf, `    <rect class="thumb" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4"/>`+"\n",
				x, y, l.ColumnWidth, thumbH)
		}
		if label := r.label(p.ItemID, l.ColumnWidth); label != "" {
			fmt.Fprintf(&buf, `    <text class="title" x="%.1f" y="%.1f" font-family="%s" font-size="%.0f">%s</text>`+"\n",
				x+8, y+thumbH+math.Min(r.titleReserve, p.Height)/2+svgFontSize/3,
				svgFontFamily, svgFontSize, escapeXML(label))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// label returns the topic title shortened to fit a box of width w, or the
// item ID when no topics were given.
func (r svgRenderer) label(id string, w float64) string {
	title := id
	if t, ok := r.topics[id]; ok && t.Title != "" {
		title = t.Title
	}
	maxChars := int((w - 16) / (svgFontSize * svgCharWidth))
	if maxChars < 4 {
		maxChars = 4
	}
	runes := []rune(title)
	if len(runes) <= maxChars {
		return title
	}
	return string(runes[:maxChars-1]) + "…"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
