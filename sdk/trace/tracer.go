package trace

import (
	"context"

	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// tracer is the concrete Tracer bound to one instrumentation scope, sharing
// its parent provider's samplers, processors and limits.
type tracer struct {
	scope    InstrumentationScope
	provider *TracerProvider
}

var _ telemetry.Tracer = (*tracer)(nil)

// Start takes the span current in ctx as the parent (none when WithNewRoot
// is given, or when ctx carries no span); assigns trace/span IDs, consults the
// sampler, and (unless dropped) registers the new span with every processor
// via OnStart before returning it.
func (t *tracer) Start(ctx context.Context, spanName string, opts ...telemetry.SpanStartOption) (context.Context, telemetry.Span) {
	cfg := telemetry.NewSpanStartConfig(opts)

	var parentSC telemetry.SpanContext
	if !cfg.NewRoot {
		parentSC = telemetry.SpanFromContext(ctx).SpanContext()
	}

	traceID := parentSC.TraceID()
	if !traceID.IsValid() {
		traceID = telemetry.NewTraceID()
	}
	spanID := telemetry.NewSpanID()

	sampler := t.provider.sampler
	result := sampler.ShouldSample(ctx, SamplingParameters{
		ParentContext: parentSC,
		TraceID:       traceID,
		Name:          spanName,
		Kind:          cfg.Kind,
		Attributes:    cfg.Attributes,
		Links:         cfg.Links,
	})

	flags := telemetry.TraceFlags(0).WithSampled(result.Decision == RecordAndSample)
	spanCtx := telemetry.NewSpanContext(traceID, spanID, flags, result.NewTraceState, false)

	if result.Decision == Drop {
		t.provider.onDrop()
		ns := telemetry.ContextWithSpanContext(ctx, spanCtx)
		return ns, telemetry.SpanFromContext(ns)
	}

	if len(result.Attributes) > 0 {
		cfg.Attributes = append(append([]attribute.KeyValue{}, cfg.Attributes...), result.Attributes...)
	}

	s := newRecordingSpan(spanName, spanCtx, parentSC, cfg, t.scope, t.provider)
	t.provider.onStart(s)

	for _, p := range t.provider.processors {
		p.OnStart(ctx, s)
	}

	return telemetry.ContextWithSpan(ctx, s), s
}
