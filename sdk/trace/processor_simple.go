package trace

import (
	"context"
	"sync"

	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/internal/telemetrystats"
)

// SimpleSpanProcessor synchronously forwards every finished span to an
// Exporter on the caller's own goroutine: a "push then synchronously
// encode" path, minus batching. Export errors are logged; the call never
// blocks the producer beyond the exporter's own duration.
type SimpleSpanProcessor struct {
	exporter Exporter

	mu         sync.Mutex
	shutdown   bool
}

// NewSimpleSpanProcessor wraps exporter.
func NewSimpleSpanProcessor(exporter Exporter) *SimpleSpanProcessor {
	return &SimpleSpanProcessor{exporter: exporter}
}

// OnStart is a no-op; the simple processor only reacts to span completion.
func (p *SimpleSpanProcessor) OnStart(context.Context, *recordingSpan) {}

func (p *SimpleSpanProcessor) OnEnd(s ReadOnlySpan) {
	p.mu.Lock()
	down := p.shutdown
	p.mu.Unlock()
	if down {
		return
	}
	if err := p.exporter.ExportSpans(context.Background(), []ReadOnlySpan{s}); err != nil {
		telemetrystats.Incr(telemetrystats.MetricExportFailure)
		log.Error("simple span processor: export failed: %s", err)
		return
	}
	telemetrystats.Incr(telemetrystats.MetricExportSuccess)
}

// ForceFlush is a no-op: OnEnd already exports synchronously, so nothing is
// ever pending.
func (p *SimpleSpanProcessor) ForceFlush(context.Context) error { return nil }

// Shutdown disables further exports and releases the exporter.
func (p *SimpleSpanProcessor) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.shutdown = true
	p.mu.Unlock()
	return p.exporter.Shutdown(ctx)
}
