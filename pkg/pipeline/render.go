package pipeline

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/render"
	"github.com/matzehuels/topicgrid/pkg/render/sink"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// RenderFormats renders all of opts.Formats concurrently. Options must have
// passed ValidateForRender.
func RenderFormats(ctx context.Context, ts []topics.Topic, l *masonry.Layout, opts Options) (map[string][]byte, error) {
	if l == nil {
		for _, f := range opts.Formats {
			if geometryFormats[f] {
				return nil, errors.New(errors.ErrCodeInvalidInput, "format %q needs a layout", f)
			}
		}
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
		svgOnce   = sync.OnceValue(func() []byte { return renderSVG(ts, l, opts) })
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(ctx, format, ts, l, opts, svgOnce)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, format string, ts []topics.Topic, l *masonry.Layout, opts Options, svg func() []byte) ([]byte, error) {
	switch format {
	case FormatHTML:
		return sink.RenderHTML(ts, l, display.For(opts.Mode), sink.WithMobile(opts.Mobile))
	case FormatCSS:
		return sink.RenderCSS(*l), nil
	case FormatJSON:
		return sink.RenderJSON(*l)
	case FormatSVG:
		return svg(), nil
	case FormatPNG:
		return render.ToPNG(ctx, svg(), opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg())
	default:
		return nil, ValidateFormat(format)
	}
}

func renderSVG(ts []topics.Topic, l *masonry.Layout, opts Options) []byte {
	return sink.RenderSVG(*l,
		sink.WithTopics(ts),
		sink.WithTitleReserve(opts.Config.TitleReserveHeight))
}

func strconvScale(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}
