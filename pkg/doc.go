// Package pkg provides the core libraries for topicgrid, a masonry layout
// engine for thumbnail topic lists.
//
// # Architecture Overview
//
// topicgrid turns a list of forum topics into column geometry and rendered
// previews:
//
//	Topic list (JSON, HTML, SQLite, forum API)
//	         ↓
//	    [topics] / [forum] packages (read and normalize topics)
//	         ↓
//	    [display] package (grid, list or masonry per category)
//	         ↓
//	    [masonry] package (column assignment + heights)
//	         ↓
//	    [render] package (CSS custom properties, HTML, SVG)
//	         ↓
//	    JSON/HTML/CSS/SVG/PNG/PDF output
//
// # Quick Start
//
// Read topics and compute a layout:
//
//	import (
//	    "github.com/matzehuels/topicgrid/pkg/masonry"
//	    "github.com/matzehuels/topicgrid/pkg/topics"
//	)
//
//	ts, _ := topics.ReadFile("topics.json")
//	l, ok := masonry.Compute(masonry.DefaultConfig(), 900, topics.Items(ts))
//	if !ok {
//	    return // no container width yet
//	}
//	fmt.Println(l.Columns, l.ColumnWidth, l.TallestColumn)
//
// # Main Packages
//
// ## Layout
//
// [masonry] - The layout pass. Columns are filled greedily, in input order,
// into the shortest column. [masonry.Engine] adds a validated configuration,
// logging and observability hooks.
//
// [reflow] - Schedules layout passes. Width, item and mode changes mark the
// layout dirty; a burst of changes before the next tick costs one pass.
//
// [display] - Display modes (grid, list, masonry), per-category resolution
// and the container classes and variables each mode contributes.
//
// ## Input
//
// [topics] - The topic model, JSON and HTML readers, fuzzy title filtering
// and a SQLite store.
//
// [forum] - A client for the Discourse JSON API that pages through the
// latest topic list, with cached responses.
//
// ## Output
//
// [render] - Raster and print conversion of the SVG preview.
//
//   - [render/css]: Layout geometry as CSS custom properties
//   - [render/sink]: JSON, HTML and SVG renderers
//
// ## Infrastructure
//
// [pipeline] - The read → layout → render pipeline used by the CLI and the
// HTTP server, with two-level caching of layouts and artifacts.
//
// [cache] - Cache backends: file (CLI), Redis and MongoDB (shared), null.
//
// [server] - HTTP API serving layouts and renders.
//
// [config] - TOML configuration for the layout constants, display modes and
// cache backend.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for layout passes, scheduler flushes and cache
// access.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/masonry/...            # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis/MongoDB tests
//
// [topics]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/topics
// [forum]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/forum
// [display]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/display
// [masonry]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/masonry
// [masonry.Engine]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/masonry#Engine
// [reflow]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/reflow
// [render]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/render
// [render/css]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/render/css
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/topicgrid/pkg/observability
package pkg
