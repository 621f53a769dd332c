package masonry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topicgrid/pkg/errors"
	"github.com/matzehuels/topicgrid/pkg/observability"
)

type recordingLayoutHooks struct {
	observability.NoopLayoutHooks
	started, completed, skipped int
}

func (h *recordingLayoutHooks) OnLayoutStart(context.Context, float64, int) { h.started++ }
func (h *recordingLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration) {
	h.completed++
}
func (h *recordingLayoutHooks) OnLayoutSkipped(context.Context, string) { h.skipped++ }

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetColumnWidth = -1

	_, err := NewEngine(cfg, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("NewEngine() error = %v, want INVALID_CONFIG", err)
	}
}

func TestEngineLayout(t *testing.T) {
	hooks := &recordingLayoutHooks{}
	observability.SetLayoutHooks(hooks)
	defer observability.Reset()

	e, err := NewEngine(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	l, ok := e.Layout(context.Background(), 900, []Item{{ID: "a"}})
	if !ok {
		t.Fatal("Layout() ok = false for a measured container")
	}
	if l.Columns != 3 {
		t.Errorf("Columns = %d, want 3", l.Columns)
	}

	if _, ok := e.Layout(context.Background(), 0, []Item{{ID: "a"}}); ok {
		t.Error("Layout() should decline without a width")
	}

	if hooks.started != 1 || hooks.completed != 1 || hooks.skipped != 1 {
		t.Errorf("hooks = %+v, want 1 start, 1 complete, 1 skip", hooks)
	}
}

func TestEngineWarnsOnDegenerateWidth(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})

	e, err := NewEngine(DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	l, ok := e.Layout(context.Background(), 100, nil)
	if !ok || !l.Degenerate {
		t.Fatalf("Layout() = %+v, %v; want degenerate layout", l, ok)
	}
	if !strings.Contains(buf.String(), "single column") {
		t.Errorf("expected a warning about the clamp, got %q", buf.String())
	}
}
