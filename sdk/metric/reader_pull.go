package metric

import (
	"context"
	"sync"
)

// PullReader collects on demand rather than on a timer, for exporters that
// are themselves polled (e.g. a Prometheus scrape handler). Collect
// serializes concurrent callers so two scrapes arriving together still only
// run one collection.
type PullReader struct {
	provider *MeterProvider

	mu sync.Mutex
}

// Collect runs one collection and returns its result. Concurrent callers
// block on each other rather than triggering overlapping collections.
func (r *PullReader) Collect(ctx context.Context) ResourceMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.provider.Collect(ctx, defaultCallbackDeadline)
}

func (r *PullReader) register(p *MeterProvider) { r.provider = p }

// ForceFlush is Collect without returning the result, satisfying Reader.
func (r *PullReader) ForceFlush(ctx context.Context) error {
	r.Collect(ctx)
	return nil
}

// Shutdown is a no-op: PullReader holds no background goroutine or
// exporter of its own to release.
func (r *PullReader) Shutdown(ctx context.Context) error { return nil }

// NewPullReader constructs a reader that collects only when its Collect
// method is called.
func NewPullReader() *PullReader {
	return &PullReader{}
}
