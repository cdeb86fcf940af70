package trace

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/signalcore/telemetry-go/internal/env"
	"github.com/signalcore/telemetry-go/sdk/resource"
	"github.com/signalcore/telemetry-go/telemetry"
)

// TracerProviderOption configures NewTracerProvider.
type TracerProviderOption func(*providerConfig)

type providerConfig struct {
	sampler    Sampler
	processors []SpanProcessor
	limits     SpanLimits
	resource   resource.Resource
}

// WithSampler installs the root sampler consulted for every new trace.
func WithSampler(s Sampler) TracerProviderOption {
	return func(c *providerConfig) { c.sampler = s }
}

// WithSpanProcessor registers p; processors run in registration order.
func WithSpanProcessor(p SpanProcessor) TracerProviderOption {
	return func(c *providerConfig) { c.processors = append(c.processors, p) }
}

// WithSpanLimits overrides the default attribute/event/link caps.
func WithSpanLimits(l SpanLimits) TracerProviderOption {
	return func(c *providerConfig) { c.limits = l }
}

// WithResource attaches r to every span this provider's Tracers produce. The
// default, if omitted, is resource.Default().
func WithResource(r resource.Resource) TracerProviderOption {
	return func(c *providerConfig) { c.resource = r }
}

// defaults seeds c from environment variables before explicit options are
// applied.
func defaults(c *providerConfig) {
	limits := defaultSpanLimits()
	limits.AttributeCountLimit = env.Int("OTEL_SPAN_ATTRIBUTE_COUNT_LIMIT", limits.AttributeCountLimit)
	limits.EventCountLimit = env.Int("OTEL_SPAN_EVENT_COUNT_LIMIT", limits.EventCountLimit)
	limits.LinkCountLimit = env.Int("OTEL_SPAN_LINK_COUNT_LIMIT", limits.LinkCountLimit)
	c.limits = limits

	c.sampler = AlwaysOn()
	if _, ok := env.LookupEnv("OTEL_TRACES_SAMPLER_ARG"); ok {
		ratio := env.Float64("OTEL_TRACES_SAMPLER_ARG", 1.0)
		c.sampler = ParentBased(TraceIDRatioBased(ratio))
	}
	c.resource = resource.Default()
}

// Stats is a point-in-time snapshot of a provider's span counters, surfaced
// so applications can observe drop/export pressure without wiring their own
// self-telemetry consumer.
type Stats struct {
	SpansStarted int64
	SpansEnded   int64
	SpansDropped int64
}

// TracerProvider is the SDK's concrete telemetry.TracerProvider: it owns the
// sampler, the registered processors, and the span limits every Tracer it
// hands out shares.
type TracerProvider struct {
	sampler    Sampler
	processors []SpanProcessor
	limits     SpanLimits
	resource   resource.Resource

	mu      sync.Mutex
	tracers map[InstrumentationScope]*tracer

	spansStarted, spansEnded, spansDropped int64
}

var _ telemetry.TracerProvider = (*TracerProvider)(nil)

// NewTracerProvider builds a provider from opts, applied after environment
// defaults.
func NewTracerProvider(opts ...TracerProviderOption) *TracerProvider {
	c := &providerConfig{}
	defaults(c)
	for _, opt := range opts {
		opt(c)
	}
	return &TracerProvider{
		sampler:    c.sampler,
		processors: c.processors,
		limits:     c.limits,
		resource:   c.resource,
		tracers:    make(map[InstrumentationScope]*tracer),
	}
}

// Resource returns the provider's immutable resource, attached to every span
// its Tracers produce.
func (p *TracerProvider) Resource() resource.Resource { return p.resource }

// Tracer returns a Tracer scoped to instrumentationName, creating and
// caching it on first use.
func (p *TracerProvider) Tracer(instrumentationName string, opts ...telemetry.TracerOption) telemetry.Tracer {
	cfg := telemetry.NewTracerConfig(opts)
	scope := InstrumentationScope{
		Name:      instrumentationName,
		Version:   cfg.InstrumentationVersion,
		SchemaURL: cfg.SchemaURL,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tracers[scope]; ok {
		return t
	}
	t := &tracer{scope: scope, provider: p}
	p.tracers[scope] = t
	return t
}

func (p *TracerProvider) onStart(s *recordingSpan) {
	atomic.AddInt64(&p.spansStarted, 1)
	_ = s
}

func (p *TracerProvider) onEnd() {
	atomic.AddInt64(&p.spansEnded, 1)
}

func (p *TracerProvider) onDrop() {
	atomic.AddInt64(&p.spansDropped, 1)
}

// Stats returns a snapshot of the provider's span counters: started, ended,
// and dropped-by-sampler.
func (p *TracerProvider) Stats() Stats {
	return Stats{
		SpansStarted: atomic.LoadInt64(&p.spansStarted),
		SpansEnded:   atomic.LoadInt64(&p.spansEnded),
		SpansDropped: atomic.LoadInt64(&p.spansDropped),
	}
}

// ForceFlush blocks until every registered processor has flushed its
// pending spans.
func (p *TracerProvider) ForceFlush(ctx context.Context) error {
	var firstErr error
	for _, proc := range p.processors {
		if err := proc.ForceFlush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown flushes and disables every registered processor.
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, proc := range p.processors {
		if err := proc.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
