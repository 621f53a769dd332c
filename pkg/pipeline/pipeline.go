// Package pipeline runs the topics → layout → render flow shared by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Select: restrict the topics to a category and apply the fuzzy filter
//  2. Layout: run the masonry engine (masonry display mode only)
//  3. Render: produce artifacts in the requested formats
//
// Layouts and artifacts are cached through [cache.Cache]; a Runner is safe
// for concurrent use.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, ts, pipeline.Options{
//	    Width:   1200,
//	    Mode:    display.Masonry,
//	    Formats: []string{pipeline.FormatHTML, pipeline.FormatCSS},
//	})
//	html := result.Artifacts["html"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicgrid/pkg/cache"
	"github.com/matzehuels/topicgrid/pkg/display"
	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/topics"
)

// =============================================================================
// Formats
// =============================================================================

const (
	FormatHTML = "html"
	FormatCSS  = "css"
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatHTML

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatCSS:  true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// geometryFormats need a masonry layout.
var geometryFormats = map[string]bool{
	FormatCSS:  true,
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatCSS:  "text/css; charset=utf-8",
	FormatJSON: "application/json",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, css, json, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Width is the container width in pixels. Required in masonry mode.
	Width float64 `json:"width"`

	// Config tunes the engine. The zero value means masonry.DefaultConfig.
	Config masonry.Config `json:"config"`

	// Mode is the display mode to render in.
	Mode display.Mode `json:"mode"`

	// Category restricts the run to one category's topics.
	Category string `json:"category,omitempty"`

	// Filter is a fuzzy title query; matching topics are laid out best first.
	Filter string `json:"filter,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Mobile  bool     `json:"mobile,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh bypasses cache reads.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Config == (masonry.Config{}) {
		o.Config = masonry.DefaultConfig()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout checks the options a layout pass needs.
func (o *Options) ValidateForLayout() error {
	o.SetDefaults()
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Mode == display.Masonry && !(o.Width > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "container width not set (got %v)", o.Width)
	}
	return nil
}

// ValidateForRender checks formats against the display mode.
func (o *Options) ValidateForRender() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Mode != display.Masonry {
		for _, f := range o.Formats {
			if geometryFormats[f] {
				return errors.New(errors.ErrCodeInvalidFormat,
					"format %q needs masonry layout geometry, display mode is %s", f, o.Mode)
			}
		}
	}
	return nil
}

// ValidateAndSetDefaults checks everything a full run needs. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns the cache key inputs for a layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:              o.Width,
		TargetColumnWidth:  o.Config.TargetColumnWidth,
		GridSpacing:        o.Config.GridSpacing,
		TitleReserveHeight: o.Config.TitleReserveHeight,
		DefaultAspect:      o.Config.DefaultAspect,
		MinAspect:          o.Config.MinAspect,
	}
}

// ArtifactKeyOpts returns the cache key inputs for one artifact.
func (o *Options) ArtifactKeyOpts(format, topicsHash string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		Mode:       o.Mode.String(),
		Mobile:     o.Mobile,
		TopicsHash: topicsHash,
	}
	if format == FormatPNG {
		opts.Format = format + "@" + strconvScale(o.Scale)
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result holds the outputs of a run.
type Result struct {
	// Topics are the topics that were laid out, after category and filter.
	Topics []topics.Topic

	// Layout is nil outside masonry mode.
	Layout *masonry.Layout

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timing and size information.
type Stats struct {
	TopicCount int
	Columns    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages hit the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
