package trace

import (
	"context"

	"github.com/signalcore/telemetry-go/telemetry"
)

// SpanProcessor is notified of span lifecycle events in provider
// registration order. Implementations must not block the caller beyond
// their own bounded work: SimpleSpanProcessor trades "never blocks" for
// "synchronous export on the caller's goroutine"; BatchSpanProcessor never
// runs the exporter on the caller's goroutine at all.
type SpanProcessor interface {
	// OnStart is called synchronously on the span-starting goroutine with
	// the span still mutable, and the resolved parent context.
	OnStart(parent context.Context, s *recordingSpan)
	// OnEnd is called synchronously on the span-ending goroutine with an
	// immutable snapshot of the finished span.
	OnEnd(s ReadOnlySpan)
	// ForceFlush blocks until every span enqueued before the call returns
	// has been handed to the exporter (successfully or not).
	ForceFlush(ctx context.Context) error
	// Shutdown flushes and then disables the processor; OnEnd after
	// Shutdown has returned is a no-op.
	Shutdown(ctx context.Context) error
}

var _ telemetry.Span = (*recordingSpan)(nil)
