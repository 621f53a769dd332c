package reflow

import (
	"sync"
	"time"
)

// Tick schedules fn to run on the host's next tick. Implementations must
// not run fn synchronously inside Schedule.
type Tick interface {
	Schedule(fn func())
}

// Queue is a Tick whose callbacks run when the host calls Drain, typically
// once per iteration of its event loop.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue { return &Queue{} }

// Schedule appends fn to the queue.
func (q *Queue) Schedule(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs the queued callbacks and reports how many ran. Callbacks
// scheduled while draining wait for the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// AfterFunc is a Tick that runs callbacks on their own goroutine after a
// fixed delay. A zero delay still defers to a new goroutine.
type AfterFunc time.Duration

// Schedule starts a timer for fn.
func (d AfterFunc) Schedule(fn func()) {
	time.AfterFunc(time.Duration(d), fn)
}
