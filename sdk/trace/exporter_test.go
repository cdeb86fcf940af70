package trace

import (
	"context"
	"sync"
	"time"
)

// fakeExporter records every span handed to ExportSpans; an optional delay
// simulates a slow backend for timeout tests.
type fakeExporter struct {
	mu       sync.Mutex
	spans    []ReadOnlySpan
	delay    time.Duration
	shutdown bool
	failNext bool
}

func newFakeExporter() *fakeExporter {
	return &fakeExporter{}
}

func (f *fakeExporter) ExportSpans(ctx context.Context, spans []ReadOnlySpan) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return context.Canceled
	}
	f.spans = append(f.spans, spans...)
	return nil
}

func (f *fakeExporter) Shutdown(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdown = true
	return nil
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.spans)
}
