// Package render converts the SVG preview to raster and print formats.
//
// Subpackages:
//   - [css]: layout geometry as CSS custom properties
//   - [sink]: JSON, HTML and SVG renderers
//
// [ToPNG] and [ToPDF] shell out to rsvg-convert (librsvg). They return an
// UNSUPPORTED error when the tool is not installed.
//
// [css]: github.com/matzehuels/topicgrid/pkg/render/css
// [sink]: github.com/matzehuels/topicgrid/pkg/render/sink
package render
