// Package reflow schedules masonry layout passes.
//
// Hosts report input changes (container width, the item sequence, whether
// masonry mode is on) as they happen. The [Scheduler] marks itself dirty and
// asks a [Tick] for a single flush; every change that arrives before that
// flush runs is folded into the same pass. A pass never runs while masonry
// mode is off or the container width is unknown, and in that case the
// previous layout is left as it was.
package reflow

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/observability"
)

// Listener receives every layout a flush produces.
type Listener func(masonry.Layout)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(l *log.Logger) Option { return func(s *Scheduler) { s.logger = l } }

// WithListener registers fn to be called after each pass.
func WithListener(fn Listener) Option {
	return func(s *Scheduler) { s.listeners = append(s.listeners, fn) }
}

// WithEnabled sets the initial masonry flag (default true).
func WithEnabled(enabled bool) Option { return func(s *Scheduler) { s.enabled = enabled } }

// Scheduler coalesces layout triggers into one pass per tick.
type Scheduler struct {
	engine    *masonry.Engine
	tick      Tick
	logger    *log.Logger
	listeners []Listener

	mu        sync.Mutex
	enabled   bool
	width     float64
	items     []masonry.Item
	dirty     bool
	scheduled bool
	triggers  int
	passes    int
	seq       uint64 // last pass started
	stored    uint64 // pass whose layout is held
	layout    masonry.Layout
	hasLayout bool
}

// New creates a scheduler that runs engine on tick.
func New(engine *masonry.Engine, tick Tick, opts ...Option) *Scheduler {
	s := &Scheduler{
		engine:  engine,
		tick:    tick,
		enabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// SetWidth records a new container width.
func (s *Scheduler) SetWidth(width float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.invalidateLocked("width")
}

// SetItems records a new item sequence. The slice is copied.
func (s *Scheduler) SetItems(items []masonry.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	s.invalidateLocked("items")
}

// SetEnabled switches masonry mode on or off. Turning it on with a known
// width schedules a pass; turning it off leaves the last layout untouched.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = enabled
	s.invalidateLocked("mode")
}

// Invalidate requests a pass without changing any input.
func (s *Scheduler) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked("manual")
}

func (s *Scheduler) invalidateLocked(source string) {
	if !s.enabled || !(s.width > 0) {
		return
	}
	observability.Scheduler().OnInvalidate(context.Background(), source)
	s.dirty = true
	s.triggers++
	if s.scheduled {
		return
	}
	s.scheduled = true
	s.tick.Schedule(s.flush)
}

// flush runs at most one pass for all triggers since it was scheduled.
func (s *Scheduler) flush() {
	s.mu.Lock()
	s.scheduled = false
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	coalesced := s.triggers
	s.triggers = 0

	if !s.enabled || !(s.width > 0) {
		s.mu.Unlock()
		return
	}
	width, items := s.width, s.items
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	ctx := context.Background()
	observability.Scheduler().OnFlush(ctx, coalesced)

	l, ok := s.engine.Layout(ctx, width, items)
	if !ok {
		return
	}

	s.mu.Lock()
	s.passes++
	if seq < s.stored {
		// A later pass finished first.
		s.mu.Unlock()
		return
	}
	s.layout = l
	s.hasLayout = true
	s.stored = seq
	s.mu.Unlock()

	s.logger.Debug("reflowed", "triggers", coalesced, "width", width, "items", len(items))
	for _, fn := range s.listeners {
		fn(l)
	}
}

// Layout returns the most recent layout, if any pass has run.
func (s *Scheduler) Layout() (masonry.Layout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout, s.hasLayout
}

// Width returns the last reported container width.
func (s *Scheduler) Width() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Passes returns how many layout passes have run.
func (s *Scheduler) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// Pending reports whether a flush is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}
