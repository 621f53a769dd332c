// Package sink renders a topic list and its masonry layout to output
// formats.
//
//   - [RenderJSON]: rounded geometry for API clients
//   - [RenderCSS]: a stylesheet applying the geometry to existing markup
//   - [RenderHTML]: topic list markup with display-mode classes and styles
//   - [RenderSVG]: a box preview of the column packing
//
// Only the masonry display mode carries geometry. RenderHTML accepts a nil
// layout and renders the list without it.
package sink
