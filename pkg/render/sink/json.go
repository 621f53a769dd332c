package sink

import (
	"encoding/json"

	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/render/css"
)

// Document is the JSON form of a layout.
type Document struct {
	Container  css.Params       `json:"container"`
	Items      []css.ItemParams `json:"items"`
	Degenerate bool             `json:"degenerate,omitempty"`
	Raw        *masonry.Layout  `json:"raw,omitempty"`
}

// NewDocument rounds l into a Document. The unrounded layout is attached
// when raw is set.
func NewDocument(l masonry.Layout, raw bool) Document {
	doc := Document{
		Container:  css.ContainerParams(l),
		Items:      make([]css.ItemParams, len(l.Placements)),
		Degenerate: l.Degenerate,
	}
	for i, p := range l.Placements {
		doc.Items[i] = css.PlacementParams(p)
	}
	if raw {
		doc.Raw = &l
	}
	return doc
}

// RenderJSON returns the indented Document for l.
func RenderJSON(l masonry.Layout) ([]byte, error) {
	return json.MarshalIndent(NewDocument(l, false), "", "  ")
}
