package sink

import (
	"bytes"
	"html/template"
	"net/url"

	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

const listTemplate = `<table class="topic-list{{with .Class}} {{.}}{{end}}"{{with .Style}} style="{{.}}"{{end}}>
  <tbody>
{{- range .Rows}}
{{- if .Desktop}}
    <tr class="topic-list-item" data-topic-id="{{.ID}}"{{with .Style}} style="{{.}}"{{end}}>
      {{- with .Thumbnail}}
      <td class="topic-thumbnail"><img src="{{.URL}}"{{if .Width}} width="{{.Width}}"{{end}}{{if .Height}} height="{{.Height}}"{{end}} loading="lazy" alt=""></td>
      {{- end}}
      <td class="main-link"><a class="title" href="{{.Href}}">{{.Title}}</a></td>
      {{- with .Category}}
      <td class="category"><span class="badge-category">{{.}}</span></td>
      {{- end}}
    </tr>
{{- else}}
    <tr class="topic-list-item mobile" data-topic-id="{{.ID}}"{{with .Style}} style="{{.}}"{{end}}>
      <td class="topic-list-data"><a class="title" href="{{.Href}}">{{.Title}}</a>{{with .Category}} <span class="badge-category">{{.}}</span>{{end}}</td>
    </tr>
{{- end}}
{{- end}}
  </tbody>
</table>
`

var listTmpl = template.Must(template.New("topic-list").Parse(listTemplate))

type listData struct {
	Class string
	Style template.CSS
	Rows  []rowData
}

type rowData struct {
	ID        string
	Title     string
	Category  string
	Href      string
	Style     template.CSS
	Desktop   bool
	Thumbnail *topics.Thumbnail
}

// HTMLOption configures RenderHTML.
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	mobile     bool
	topicsPath string
}

// WithMobile renders for a mobile view. Display modes that rely on the
// desktop row markup still get it.
func WithMobile(mobile bool) HTMLOption { return func(r *htmlRenderer) { r.mobile = mobile } }

// WithTopicsPath sets the path topic links are built under. Default "/t/".
func WithTopicsPath(p string) HTMLOption { return func(r *htmlRenderer) { r.topicsPath = p } }

// RenderHTML renders ts as a topic list in the given display strategy. l may
// be nil; placements are looked up by topic ID.
func RenderHTML(ts []topics.Topic, l *masonry.Layout, s display.Strategy, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{topicsPath: "/t/"}
	for _, opt := range opts {
		opt(&r)
	}

	var index map[string]masonry.Placement
	if l != nil {
		index = l.Index()
	}

	// Styles come from css.Style, which only emits numbers and fixed
	// property names.
	data := listData{
		Class: s.ListClass(),
		Style: template.CSS(s.ListStyle(l)),
		Rows:  make([]rowData, len(ts)),
	}
	desktop := !r.mobile || s.ForceDesktop(r.mobile)
	for i, t := range ts {
		row := rowData{
			ID:        t.ID,
			Title:     t.Title,
			Category:  t.Category,
			Href:      r.topicsPath + url.PathEscape(t.ID),
			Desktop:   desktop,
			Thumbnail: t.Thumbnail(),
		}
		if p, ok := index[t.ID]; ok {
			row.Style = template.CSS(s.ItemStyle(&p))
		}
		data.Rows[i] = row
	}

	var buf bytes.Buffer
	if err := listTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
