package display

import (
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/render/css"
)

// Strategy supplies the markup hints for one display mode.
type Strategy interface {
	Mode() Mode

	// ListClass is the class added to the topic list, or "".
	ListClass() string

	// ListStyle is the inline style for the topic list. l may be nil when no
	// layout has been computed yet.
	ListStyle(l *masonry.Layout) string

	// ItemStyle is the inline style for one topic row. p may be nil.
	ItemStyle(p *masonry.Placement) string

	// ForceDesktop reports whether item markup must use the desktop template
	// even on a mobile view.
	ForceDesktop(mobile bool) bool
}

// For returns the strategy for m. Unknown modes get the None strategy.
func For(m Mode) Strategy {
	switch m {
	case Grid:
		return gridStrategy{}
	case List:
		return listStrategy{}
	case Masonry:
		return masonryStrategy{}
	default:
		return noneStrategy{}
	}
}

type noneStrategy struct{}

func (noneStrategy) Mode() Mode                          { return None }
func (noneStrategy) ListClass() string                   { return "" }
func (noneStrategy) ListStyle(*masonry.Layout) string    { return "" }
func (noneStrategy) ItemStyle(*masonry.Placement) string { return "" }
func (noneStrategy) ForceDesktop(bool) bool              { return false }

type gridStrategy struct{}

func (gridStrategy) Mode() Mode                          { return Grid }
func (gridStrategy) ListClass() string                   { return "topic-thumbnails-grid" }
func (gridStrategy) ListStyle(*masonry.Layout) string    { return "" }
func (gridStrategy) ItemStyle(*masonry.Placement) string { return "" }

// The grid is responsive on its own and relies on the desktop row markup.
func (gridStrategy) ForceDesktop(mobile bool) bool { return mobile }

type listStrategy struct{}

func (listStrategy) Mode() Mode                          { return List }
func (listStrategy) ListClass() string                   { return "topic-thumbnails-list" }
func (listStrategy) ListStyle(*masonry.Layout) string    { return "" }
func (listStrategy) ItemStyle(*masonry.Placement) string { return "" }
func (listStrategy) ForceDesktop(bool) bool              { return false }

type masonryStrategy struct{}

func (masonryStrategy) Mode() Mode        { return Masonry }
func (masonryStrategy) ListClass() string { return "topic-thumbnails-masonry" }

func (masonryStrategy) ListStyle(l *masonry.Layout) string {
	if l == nil {
		return ""
	}
	return css.Style(css.ContainerVars(*l))
}

func (masonryStrategy) ItemStyle(p *masonry.Placement) string {
	if p == nil {
		return ""
	}
	return css.Style(css.ItemVars(*p))
}

func (masonryStrategy) ForceDesktop(mobile bool) bool { return mobile }
