package metric

import (
	"context"
	"sync"
	"time"

	"github.com/signalcore/telemetry-go/sdk/resource"
)

// Reader is a metric pipeline's consumer: it is given the MeterProvider it
// is attached to at registration and, from then on, decides when and how
// often to pull a ResourceMetrics snapshot. PeriodicReader
// and PullReader are the two concrete forms.
type Reader interface {
	register(p *MeterProvider)
	// Shutdown stops the reader and releases any background resources
	// (e.g. PeriodicReader's timer goroutine). Readers must tolerate
	// Shutdown being called more than once.
	Shutdown(ctx context.Context) error
	// ForceFlush collects once and pushes the result through immediately,
	// bypassing any timer.
	ForceFlush(ctx context.Context) error
}

// MeterProviderOption configures a MeterProvider at construction, following
// the tracing SDK's functional-options pattern.
type MeterProviderOption func(*providerConfig)

type providerConfig struct {
	resource    resource.Resource
	readers     []Reader
	views       []View
	temporality TemporalitySelector
}

// WithResource attaches r to every metric this provider's Meters
// produce. The default, if omitted, is resource.Default().
func WithResource(r resource.Resource) MeterProviderOption {
	return func(c *providerConfig) { c.resource = r }
}

// WithReader attaches r to the provider; a provider may have more than one
// reader, each independently deciding when to collect.
func WithReader(r Reader) MeterProviderOption {
	return func(c *providerConfig) { c.readers = append(c.readers, r) }
}

// WithView registers v. Every registered View whose Criteria matches a
// given instrument produces its own output stream for that instrument.
func WithView(v View) MeterProviderOption {
	return func(c *providerConfig) { c.views = append(c.views, v) }
}

// WithTemporalitySelector overrides the default (cumulative) temporality
// selection for every reader on this provider.
func WithTemporalitySelector(sel TemporalitySelector) MeterProviderOption {
	return func(c *providerConfig) { c.temporality = sel }
}

// defaults mirrors the tracing SDK's defaults(c) then apply-opts sequencing:
// environment/detector-driven defaults first, so any option that sets the
// same field overrides it cleanly rather than needing to detect "unset".
func defaults(c *providerConfig) {
	c.temporality = CumulativeTemporalitySelector
	c.resource = resource.Default()
}

func newProviderConfig(opts []MeterProviderOption) providerConfig {
	var c providerConfig
	defaults(&c)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// MeterProvider is the entry point to the metrics API: it creates Meters
// per InstrumentationScope and drives every attached Reader.
type MeterProvider struct {
	resource    resource.Resource
	views       []View
	temporality TemporalitySelector
	readers     []Reader

	mu     sync.Mutex
	meters map[InstrumentationScope]*Meter
}

// NewMeterProvider constructs a MeterProvider from opts, following the
// tracing SDK's functional-options pattern.
func NewMeterProvider(opts ...MeterProviderOption) *MeterProvider {
	c := newProviderConfig(opts)
	p := &MeterProvider{
		resource:    c.resource,
		views:       c.views,
		temporality: c.temporality,
		readers:     c.readers,
		meters:      make(map[InstrumentationScope]*Meter),
	}
	for _, r := range p.readers {
		r.register(p)
	}
	return p
}

// Meter returns the Meter for the given InstrumentationScope name, creating
// and caching it on first use, mirroring the tracing SDK's per-scope Tracer
// cache.
func (p *MeterProvider) Meter(name string, opts ...MeterOption) *Meter {
	cfg := newMeterConfig(opts)
	scope := InstrumentationScope{Name: name, Version: cfg.version, SchemaURL: cfg.schemaURL}

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.meters[scope]; ok {
		return m
	}
	m := newMeter(scope, p)
	p.meters[scope] = m
	return m
}

// Resource returns the Resource attached to every metric this provider's
// Meters produce.
func (p *MeterProvider) Resource() resource.Resource { return p.resource }

// Collect runs one collection across every Meter this provider has handed
// out, merging the result into a single ResourceMetrics. It
// is invoked by Readers rather than application code directly.
func (p *MeterProvider) Collect(ctx context.Context, callbackDeadline time.Duration) ResourceMetrics {
	p.mu.Lock()
	meters := make([]*Meter, 0, len(p.meters))
	for _, m := range p.meters {
		meters = append(meters, m)
	}
	p.mu.Unlock()

	rm := ResourceMetrics{Resource: p.resource}
	for _, m := range meters {
		scope := m.collect(ctx, callbackDeadline, p.temporality)
		if len(scope.Metrics) > 0 {
			rm.ScopeMetrics = append(rm.ScopeMetrics, scope)
		}
	}
	return rm
}

// Shutdown shuts down every attached Reader.
func (p *MeterProvider) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, r := range p.readers {
		if err := r.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ForceFlush collects and exports immediately on every attached Reader.
func (p *MeterProvider) ForceFlush(ctx context.Context) error {
	var firstErr error
	for _, r := range p.readers {
		if err := r.ForceFlush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// MeterOption configures a Meter at creation from MeterProvider.Meter.
type MeterOption func(*meterConfig)

type meterConfig struct {
	version   string
	schemaURL string
}

func newMeterConfig(opts []MeterOption) meterConfig {
	var c meterConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithMeterVersion sets the instrumentation scope's version.
func WithMeterVersion(version string) MeterOption {
	return func(c *meterConfig) { c.version = version }
}

// WithMeterSchemaURL sets the instrumentation scope's schema URL.
func WithMeterSchemaURL(schemaURL string) MeterOption {
	return func(c *meterConfig) { c.schemaURL = schemaURL }
}
