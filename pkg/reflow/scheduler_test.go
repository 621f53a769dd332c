package reflow

import (
	"context"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/matzehuels/topicgrid/pkg/masonry"
	"github.com/matzehuels/topicgrid/pkg/observability"
)

func newEngine(t *testing.T) *masonry.Engine {
	t.Helper()
	e, err := masonry.NewEngine(masonry.DefaultConfig(), nil)
	assert.NilError(t, err)
	return e
}

var threeItems = []masonry.Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}

func TestSchedulerCoalescesBurst(t *testing.T) {
	q := NewQueue()
	var got []masonry.Layout
	s := New(newEngine(t), q, WithListener(func(l masonry.Layout) { got = append(got, l) }))

	s.SetWidth(900)
	s.SetItems(threeItems)
	s.SetWidth(1200)
	s.SetItems(threeItems[:2])

	assert.Equal(t, q.Len(), 1, "a burst should schedule exactly one flush")
	assert.Assert(t, s.Pending())
	_, ok := s.Layout()
	assert.Assert(t, !ok, "layout must not run synchronously")

	assert.Equal(t, q.Drain(), 1)
	assert.Equal(t, s.Passes(), 1)
	assert.Equal(t, len(got), 1)

	l, ok := s.Layout()
	assert.Assert(t, ok)
	assert.Equal(t, l.ContainerWidth, 1200.0)
	assert.Equal(t, l.Columns, 4)
	assert.Equal(t, len(l.Placements), 2)
	assert.Assert(t, !s.Pending())
}

func TestSchedulerSkipsWithoutWidth(t *testing.T) {
	q := NewQueue()
	s := New(newEngine(t), q)

	s.SetItems(threeItems)
	s.SetWidth(0)

	assert.Equal(t, q.Len(), 0)
	q.Drain()
	assert.Equal(t, s.Passes(), 0)
}

func TestSchedulerSkipsWhenDisabled(t *testing.T) {
	q := NewQueue()
	s := New(newEngine(t), q, WithEnabled(false))

	s.SetWidth(900)
	s.SetItems(threeItems)
	assert.Equal(t, q.Len(), 0)

	s.SetEnabled(true)
	assert.Equal(t, q.Len(), 1)
	q.Drain()
	assert.Equal(t, s.Passes(), 1)
}

func TestSchedulerKeepsPriorLayout(t *testing.T) {
	q := NewQueue()
	s := New(newEngine(t), q)

	s.SetItems(threeItems)
	s.SetWidth(900)
	q.Drain()
	before, ok := s.Layout()
	assert.Assert(t, ok)

	// Width lost: nothing runs, previous geometry stays.
	s.SetWidth(0)
	assert.Equal(t, q.Len(), 0)

	// Mode switched off mid-tick: the pending flush becomes a no-op.
	s.SetWidth(600)
	s.SetEnabled(false)
	q.Drain()

	after, _ := s.Layout()
	assert.DeepEqual(t, before, after)
	assert.Equal(t, s.Passes(), 1)
}

func TestSchedulerReschedulesAfterFlush(t *testing.T) {
	q := NewQueue()
	s := New(newEngine(t), q)

	s.SetWidth(900)
	q.Drain()
	s.SetWidth(600)
	assert.Equal(t, q.Len(), 1)
	q.Drain()

	l, _ := s.Layout()
	assert.Equal(t, l.Columns, 2)
	assert.Equal(t, s.Passes(), 2)
}

type flushRecorder struct {
	observability.NoopSchedulerHooks
	coalesced []int
}

func (r *flushRecorder) OnFlush(_ context.Context, n int) { r.coalesced = append(r.coalesced, n) }

func TestSchedulerReportsCoalescedTriggers(t *testing.T) {
	rec := &flushRecorder{}
	observability.SetSchedulerHooks(rec)
	defer observability.Reset()

	q := NewQueue()
	s := New(newEngine(t), q)
	s.SetWidth(900)
	s.SetItems(threeItems)
	s.Invalidate()
	q.Drain()

	assert.DeepEqual(t, rec.coalesced, []int{3})
}

func TestSchedulerAfterFunc(t *testing.T) {
	done := make(chan masonry.Layout, 4)
	s := New(newEngine(t), AfterFunc(5*time.Millisecond),
		WithListener(func(l masonry.Layout) { done <- l }))

	s.SetItems(threeItems)
	s.SetWidth(900)
	s.SetWidth(1500)

	select {
	case l := <-done:
		assert.Equal(t, l.Columns, 5)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for layout")
	}

	select {
	case l := <-done:
		t.Fatalf("unexpected second pass: %+v", l)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, s.Passes(), 1)
}
