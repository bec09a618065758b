package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc is called after each file finishes with the number of files
// done, the number queued and the finished path.
type ProgressFunc func(done, total int, path string)

// Tracker counts finished files and reported findings across workers.
// It is safe for concurrent use.
type Tracker struct {
	total    atomic.Int32
	done     atomic.Int32
	findings atomic.Int64
	callback ProgressFunc
}

// NewTracker returns a tracker that calls callback on every Tick.
// callback may be nil.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add queues n more files.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// Tick marks path as finished.
func (t *Tracker) Tick(path string) {
	done := int(t.done.Add(1))
	if t.callback != nil {
		t.callback(done, int(t.total.Load()), path)
	}
}

// Found records n findings.
func (t *Tracker) Found(n int) {
	t.findings.Add(int64(n))
}

// Done returns the number of finished files.
func (t *Tracker) Done() int {
	return int(t.done.Load())
}

// Total returns the number of queued files.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

// Findings returns the number of findings recorded so far.
func (t *Tracker) Findings() int {
	return int(t.findings.Load())
}

type trackerKey struct{}

// WithTracker returns a context carrying t.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the tracker carried by ctx, or nil.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
