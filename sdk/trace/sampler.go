package trace

import (
	"context"
	"encoding/binary"
	"math"

	"golang.org/x/time/rate"

	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// SamplingDecision is the outcome of a Sampler consultation.
type SamplingDecision int

const (
	Drop SamplingDecision = iota
	RecordOnly
	RecordAndSample
)

// SamplingParameters carries everything a Sampler needs to decide.
type SamplingParameters struct {
	ParentContext telemetry.SpanContext
	TraceID       telemetry.TraceID
	Name          string
	Kind          telemetry.SpanKind
	Attributes    []attribute.KeyValue
	Links         []telemetry.Link
}

// SamplingResult is what a Sampler returns: the decision, attributes to
// splice into the span, and a trace-state replacement installed verbatim on
// the resulting SpanContext.
type SamplingResult struct {
	Decision        SamplingDecision
	Attributes      []attribute.KeyValue
	NewTraceState   telemetry.TraceState
}

// Sampler decides whether and how a span is recorded.
type Sampler interface {
	ShouldSample(ctx context.Context, p SamplingParameters) SamplingResult
	Description() string
}

type alwaysOnSampler struct{}

// AlwaysOn samples every span.
func AlwaysOn() Sampler { return alwaysOnSampler{} }

func (alwaysOnSampler) ShouldSample(_ context.Context, p SamplingParameters) SamplingResult {
	return SamplingResult{Decision: RecordAndSample, NewTraceState: p.ParentContext.TraceState()}
}
func (alwaysOnSampler) Description() string { return "AlwaysOnSampler" }

type alwaysOffSampler struct{}

// AlwaysOff drops every span.
func AlwaysOff() Sampler { return alwaysOffSampler{} }

func (alwaysOffSampler) ShouldSample(_ context.Context, p SamplingParameters) SamplingResult {
	return SamplingResult{Decision: Drop, NewTraceState: p.ParentContext.TraceState()}
}
func (alwaysOffSampler) Description() string { return "AlwaysOffSampler" }

// traceIDRatioSampler samples deterministically per trace by comparing the
// low 64 bits of the trace ID against a threshold derived from the ratio.
type traceIDRatioSampler struct {
	ratio     float64
	threshold uint64
}

// TraceIDRatioBased samples a fraction ratio (clamped to [0,1]) of traces,
// deterministically keyed on trace ID so every span within one trace agrees.
func TraceIDRatioBased(ratio float64) Sampler {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	s := &traceIDRatioSampler{ratio: ratio}
	if ratio < 1 {
		s.threshold = uint64(ratio * math.Exp2(64))
	}
	return s
}

func (s *traceIDRatioSampler) ShouldSample(_ context.Context, p SamplingParameters) SamplingResult {
	decision := Drop
	if s.ratio >= 1 || traceIDLow64(p.TraceID) < s.threshold {
		decision = RecordAndSample
	}
	return SamplingResult{Decision: decision, NewTraceState: p.ParentContext.TraceState()}
}

func (s *traceIDRatioSampler) Description() string { return "TraceIDRatioBased" }

// traceIDLow64 returns the trace ID's low 64 bits. A ratio of 1 is decided in
// ShouldSample without the threshold, since 2^64 does not fit in a uint64.
func traceIDLow64(id telemetry.TraceID) uint64 {
	return binary.BigEndian.Uint64(id[8:])
}

// parentBasedSampler inherits the parent's sampling decision when the parent
// SpanContext is valid, otherwise consults root.
type parentBasedSampler struct {
	root               Sampler
	remoteSampled      Sampler
	remoteNotSampled   Sampler
	localSampled       Sampler
	localNotSampled    Sampler
}

// ParentBasedOption configures ParentBased.
type ParentBasedOption func(*parentBasedSampler)

// WithRemoteParentSampled overrides the sampler used when the parent is
// remote and sampled.
func WithRemoteParentSampled(s Sampler) ParentBasedOption {
	return func(p *parentBasedSampler) { p.remoteSampled = s }
}

// WithRemoteParentNotSampled overrides the sampler used when the parent is
// remote and not sampled.
func WithRemoteParentNotSampled(s Sampler) ParentBasedOption {
	return func(p *parentBasedSampler) { p.remoteNotSampled = s }
}

// WithLocalParentSampled overrides the sampler used when the parent is local
// and sampled.
func WithLocalParentSampled(s Sampler) ParentBasedOption {
	return func(p *parentBasedSampler) { p.localSampled = s }
}

// WithLocalParentNotSampled overrides the sampler used when the parent is
// local and not sampled.
func WithLocalParentNotSampled(s Sampler) ParentBasedOption {
	return func(p *parentBasedSampler) { p.localNotSampled = s }
}

// ParentBased inherits the parent span's sampling decision when the parent
// SpanContext is valid, consulting root otherwise (new traces).
func ParentBased(root Sampler, opts ...ParentBasedOption) Sampler {
	p := &parentBasedSampler{
		root:             root,
		remoteSampled:    AlwaysOn(),
		remoteNotSampled: AlwaysOff(),
		localSampled:     AlwaysOn(),
		localNotSampled:  AlwaysOff(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *parentBasedSampler) ShouldSample(ctx context.Context, sp SamplingParameters) SamplingResult {
	parent := sp.ParentContext
	if !parent.IsValid() {
		return p.root.ShouldSample(ctx, sp)
	}
	switch {
	case parent.IsRemote() && parent.IsSampled():
		return p.remoteSampled.ShouldSample(ctx, sp)
	case parent.IsRemote() && !parent.IsSampled():
		return p.remoteNotSampled.ShouldSample(ctx, sp)
	case !parent.IsRemote() && parent.IsSampled():
		return p.localSampled.ShouldSample(ctx, sp)
	default:
		return p.localNotSampled.ShouldSample(ctx, sp)
	}
}

func (p *parentBasedSampler) Description() string { return "ParentBased{" + p.root.Description() + "}" }

// rateLimitedSampler wraps another sampler, refusing RecordAndSample
// decisions once a *rate.Limiter budget (traces per second) is exhausted.
type rateLimitedSampler struct {
	inner   Sampler
	limiter *rate.Limiter
}

// RateLimited caps inner's RecordAndSample decisions to at most
// tracesPerSecond per second, downgrading any decision beyond the budget to
// RecordOnly (the span is still built and locally visible, just not marked
// sampled for export).
func RateLimited(inner Sampler, tracesPerSecond float64) Sampler {
	return &rateLimitedSampler{inner: inner, limiter: rate.NewLimiter(rate.Limit(tracesPerSecond), int(tracesPerSecond)+1)}
}

func (s *rateLimitedSampler) ShouldSample(ctx context.Context, p SamplingParameters) SamplingResult {
	res := s.inner.ShouldSample(ctx, p)
	if res.Decision != RecordAndSample {
		return res
	}
	if !s.limiter.Allow() {
		res.Decision = RecordOnly
	}
	return res
}

func (s *rateLimitedSampler) Description() string { return "RateLimited{" + s.inner.Description() + "}" }
