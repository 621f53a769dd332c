package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/render/css"
)

// RenderCSS returns a stylesheet that applies l to a rendered topic list:
// one rule for the list and one per topic row, keyed by data-topic-id.
//
// Item IDs are assumed to have passed errors.ValidateItemID, which rules out
// quotes and brackets.
func RenderCSS(l masonry.Layout) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, ".topic-list.topic-thumbnails-masonry { %s }\n", css.Style(css.ContainerVars(l)))
	for _, p := range l.Placements {
		fmt.Fprintf(&buf, `.topic-thumbnails-masonry [data-topic-id="%s"] { %s }`+"\n",
			p.ItemID, css.Style(css.ItemVars(p)))
	}
	return buf.Bytes()
}
