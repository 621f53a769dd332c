package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/topicgrid/pkg/buildinfo"
	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/pipeline"
	"github.com/matzehuels/topicgrid/pkg/render/sink"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// Request is the body of both /v1 endpoints.
type Request struct {
	Width    float64         `json:"width"`
	Config   *masonry.Config `json:"config,omitempty"`
	Mode     *display.Mode   `json:"mode,omitempty"`
	Category string          `json:"category,omitempty"`
	Filter   string          `json:"filter,omitempty"`
	Mobile   bool            `json:"mobile,omitempty"`
	Scale    float64         `json:"scale,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`
	Topics   []topics.Topic  `json:"topics"`
}

// LayoutResponse is the body returned by /v1/layout.
type LayoutResponse struct {
	sink.Document
	Topics int  `json:"topics"`
	Cached bool `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.options(r, req)
	opts.Mode = display.Masonry
	selected := pipeline.Select(req.Topics, opts)

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), selected, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		Document: sink.NewDocument(l, true),
		Topics:   len(selected),
		Cached:   hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.options(r, req)
	opts.Formats = []string{format}
	result, err := s.runner.Execute(r.Context(), req.Topics, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Display-Mode", opts.Mode.String())
	w.Header().Set("X-Topic-Count", strconv.Itoa(result.Stats.TopicCount))
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	if err := topics.Normalize(req.Topics); err != nil {
		return req, err
	}
	return req, nil
}

// options maps a request onto pipeline options, filling the mode from the
// category and the config from the server defaults.
func (s *Server) options(r *http.Request, req Request) pipeline.Options {
	opts := pipeline.Options{
		Width:    req.Width,
		Config:   s.config,
		Mode:     s.resolver.Resolve(req.Category),
		Category: req.Category,
		Filter:   req.Filter,
		Mobile:   req.Mobile,
		Scale:    req.Scale,
		Refresh:  req.Refresh,
		Logger:   s.logger.With("request_id", RequestIDFromContext(r.Context())),
	}
	if req.Config != nil {
		opts.Config = *req.Config
	}
	if req.Mode != nil {
		opts.Mode = *req.Mode
	}
	return opts
}
