package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gotest.tools/v3/assert"

	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(nil, nil, logger),
		WithLogger(logger),
		WithResolver(display.Resolver{
			Default:    display.List,
			Categories: map[string]display.Mode{"photos": display.Masonry},
		}))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

const topicsJSON = `[
  {"id": "1", "title": "Welcome", "category": "photos"},
  {"id": "2", "title": "Sunset", "category": "photos", "thumbnails": [{"url": "/s.jpg", "width": 200, "height": 100}]}
]`

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	assert.NilError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	assert.NilError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	assert.NilError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, resp.StatusCode, http.StatusOK)
	var body map[string]string
	assert.NilError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, body["status"], "ok")
	assert.Assert(t, body["version"] != "")

	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NilError(t, err, "responses carry a generated request id")
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	assert.NilError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, resp.Header.Get(RequestIDHeader), id)

	req.Header.Set(RequestIDHeader, "<script>")
	resp2, err := http.DefaultClient.Do(req)
	assert.NilError(t, err)
	defer resp2.Body.Close()
	assert.Assert(t, resp2.Header.Get(RequestIDHeader) != "<script>")
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/layout", `{"width": 900, "topics": `+topicsJSON+`}`)
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	var body LayoutResponse
	assert.NilError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, body.Topics, 2)
	assert.Equal(t, body.Container.NumColumns, 3)
	assert.Equal(t, body.Container.ColumnWidth, 267)
	assert.Equal(t, body.Container.TallestColumn, 331)
	assert.Equal(t, body.Items[0].Height, 281)
	assert.Equal(t, body.Items[1].Height, 209)
	assert.Equal(t, body.Items[1].ColumnIndex, 1)
	assert.Assert(t, body.Raw != nil)
	assert.Assert(t, !body.Cached)
}

func TestLayoutCustomConfig(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/layout", `{
		"width": 900,
		"config": {"target_column_width": 450, "grid_spacing": 0, "title_reserve_height": 0, "default_aspect": 1, "min_aspect": 0.5},
		"topics": [{"id": "a"}]
	}`)
	assert.Equal(t, resp.StatusCode, http.StatusOK)

	var body LayoutResponse
	assert.NilError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, body.Container.NumColumns, 2)
	assert.Equal(t, body.Items[0].Height, 450)
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"no width", `{"topics": []}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"empty body", ``, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed", `{"width":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"width": 900, "colums": 3}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad topic id", `{"width": 900, "topics": [{"id": "a b"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidItem},
		{"bad config", `{"width": 900, "config": {"target_column_width": 0, "grid_spacing": 10}}`, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/layout", tt.body)
			assert.Equal(t, resp.StatusCode, tt.status)
			body := decodeError(t, resp)
			assert.Equal(t, body.Error.Code, tt.code)
			assert.Assert(t, body.RequestID != "")
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render/html", `{"width": 900, "category": "photos", "topics": `+topicsJSON+`}`)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, resp.Header.Get("Content-Type"), "text/html; charset=utf-8")
	assert.Equal(t, resp.Header.Get("X-Display-Mode"), "masonry")
	assert.Equal(t, resp.Header.Get("X-Topic-Count"), "2")

	data, err := io.ReadAll(resp.Body)
	assert.NilError(t, err)
	assert.Assert(t, bytes.Contains(data, []byte("--masonry-column-width: 267px;")))
}

func TestRenderResolvesModeFromCategory(t *testing.T) {
	ts := newTestServer(t)

	// No category: the resolver default (list) applies and needs no width.
	resp := post(t, ts.URL+"/v1/render/html", `{"topics": `+topicsJSON+`}`)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, resp.Header.Get("X-Display-Mode"), "list")

	// An explicit mode wins.
	resp = post(t, ts.URL+"/v1/render/html", `{"mode": "grid", "category": "photos", "topics": `+topicsJSON+`}`)
	assert.Equal(t, resp.StatusCode, http.StatusOK)
	assert.Equal(t, resp.Header.Get("X-Display-Mode"), "grid")
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/render/gif", `{"topics": []}`)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Equal(t, decodeError(t, resp).Error.Code, errors.ErrCodeInvalidFormat)

	// Geometry formats need masonry.
	resp = post(t, ts.URL+"/v1/render/css", `{"mode": "list", "topics": []}`)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
	assert.Equal(t, decodeError(t, resp).Error.Code, errors.ErrCodeInvalidFormat)

	resp = post(t, ts.URL+"/v1/render/html", `{"mode": "carousel", "topics": []}`)
	assert.Equal(t, resp.StatusCode, http.StatusBadRequest)
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v2/nothing")
	assert.NilError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusNotFound)
	assert.Equal(t, decodeError(t, resp).Error.Code, errors.ErrCodeNotFound)

	resp2, err := http.Get(ts.URL + "/v1/layout")
	assert.NilError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, resp2.StatusCode, http.StatusMethodNotAllowed)
}
