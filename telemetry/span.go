package telemetry

import (
	"context"
	"time"

	"github.com/signalcore/telemetry-go/telemetry/attribute"
	"github.com/signalcore/telemetry-go/telemetry/codes"
)

// SpanKind classifies a span's relationship to remote peers.
type SpanKind int

const (
	SpanKindUnspecified SpanKind = iota
	SpanKindInternal
	SpanKindServer
	SpanKindClient
	SpanKindProducer
	SpanKindConsumer
)

// String renders the lowercase wire form used by propagation debug logging.
func (k SpanKind) String() string {
	switch k {
	case SpanKindInternal:
		return "internal"
	case SpanKindServer:
		return "server"
	case SpanKindClient:
		return "client"
	case SpanKindProducer:
		return "producer"
	case SpanKindConsumer:
		return "consumer"
	default:
		return "unspecified"
	}
}

// Status is a span's completion status: a code plus a free-form description,
// set at most meaningfully once (codes.Ok is sticky — see codes.Code).
type Status struct {
	Code        codes.Code
	Description string
}

// Event is a timestamped annotation recorded on a span, such as the
// synthetic "exception" event produced by RecordError.
type Event struct {
	Name       string
	Time       time.Time
	Attributes []attribute.KeyValue
}

// Link associates a span with another SpanContext (e.g. the context of a
// message that triggered this span), carrying its own attributes.
type Link struct {
	SpanContext SpanContext
	Attributes  []attribute.KeyValue
}

// EventOption configures AddEvent/RecordError.
type EventOption func(*eventConfig)

type eventConfig struct {
	timestamp  time.Time
	attributes []attribute.KeyValue
}

// WithTimestamp overrides the event's recorded time; the default is time.Now().
func WithTimestamp(t time.Time) EventOption {
	return func(c *eventConfig) { c.timestamp = t }
}

// WithAttributes attaches attributes to the event.
func WithAttributes(attrs ...attribute.KeyValue) EventOption {
	return func(c *eventConfig) { c.attributes = attrs }
}

func newEventConfig(opts []EventOption) eventConfig {
	c := eventConfig{timestamp: time.Now()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// EndOption configures Span.End.
type EndOption func(*endConfig)

type endConfig struct {
	timestamp time.Time
}

// WithEndTimestamp overrides a span's end time; the default is time.Now().
func WithEndTimestamp(t time.Time) EndOption {
	return func(c *endConfig) { c.timestamp = t }
}

func newEndConfig(opts []EndOption) endConfig {
	c := endConfig{timestamp: time.Now()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Span is the mutable, in-process handle instrumentation code calls during a
// unit of work. All methods are safe for concurrent use; calls after End are
// no-ops.
type Span interface {
	// SpanContext returns the span's immutable identity. Valid even before
	// End is called and after.
	SpanContext() SpanContext
	// IsRecording reports whether the span is sampled and still open; once
	// false, further mutation calls are no-ops.
	IsRecording() bool
	// SetName changes the span's operation name.
	SetName(name string)
	// SetAttributes merges kvs into the span's bounded attribute set,
	// last-write-wins by key, incrementing the dropped-count when the cap
	// is exceeded.
	SetAttributes(kvs ...attribute.KeyValue)
	// AddEvent appends a timestamped event, subject to the bounded event
	// queue.
	AddEvent(name string, opts ...EventOption)
	// RecordError appends a synthetic "exception" event describing err. It
	// does not itself change the span's Status: status stays whatever it
	// already was.
	RecordError(err error, opts ...EventOption)
	// SetStatus transitions the span's status. codes.Ok is sticky: once
	// set, a later SetStatus(codes.Error, ...) call must not downgrade it.
	SetStatus(code codes.Code, description string)
	// End marks the span complete and hands it to the Tracer's processors.
	// Calling End more than once is a no-op; only the first call's
	// timestamp and final state are recorded.
	End(opts ...EndOption)
}

// Tracer creates spans belonging to one instrumentation scope.
type Tracer interface {
	// Start creates a new Span as a child of the span (if any) currently in
	// ctx, returning a context carrying the new span alongside the Span
	// itself.
	Start(ctx context.Context, spanName string, opts ...SpanStartOption) (context.Context, Span)
}

// SpanStartOption configures Tracer.Start.
type SpanStartOption func(*SpanStartConfig)

// SpanStartConfig is the resolved configuration built from a SpanStartOption
// list; exported so sdk/trace can consume it without a duplicate options type.
type SpanStartConfig struct {
	Kind       SpanKind
	Attributes []attribute.KeyValue
	Links      []Link
	Timestamp  time.Time
	NewRoot    bool
}

// WithSpanKind sets the span's kind.
func WithSpanKind(kind SpanKind) SpanStartOption {
	return func(c *SpanStartConfig) { c.Kind = kind }
}

// WithStartAttributes seeds the span's initial attribute set.
func WithStartAttributes(attrs ...attribute.KeyValue) SpanStartOption {
	return func(c *SpanStartConfig) { c.Attributes = attrs }
}

// WithLinks attaches links to other spans.
func WithLinks(links ...Link) SpanStartOption {
	return func(c *SpanStartConfig) { c.Links = links }
}

// WithStartTimestamp overrides the span's start time.
func WithStartTimestamp(t time.Time) SpanStartOption {
	return func(c *SpanStartConfig) { c.Timestamp = t }
}

// WithNewRoot forces the span to start a new trace, ignoring any span
// already current in the context.
func WithNewRoot() SpanStartOption {
	return func(c *SpanStartConfig) { c.NewRoot = true }
}

// NewSpanStartConfig resolves opts into a SpanStartConfig; exported so
// sdk/trace's Tracer implementation shares this package's option types.
func NewSpanStartConfig(opts []SpanStartOption) SpanStartConfig {
	c := SpanStartConfig{Timestamp: time.Now()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewEventConfig exposes newEventConfig's resolution to sdk/trace.
func NewEventConfig(opts []EventOption) (time.Time, []attribute.KeyValue) {
	c := newEventConfig(opts)
	return c.timestamp, c.attributes
}

// NewEndConfig exposes newEndConfig's resolution to sdk/trace.
func NewEndConfig(opts []EndOption) time.Time {
	return newEndConfig(opts).timestamp
}

// TracerProvider creates Tracers scoped to an instrumentation name/version.
type TracerProvider interface {
	Tracer(instrumentationName string, opts ...TracerOption) Tracer
}

// TracerOption configures TracerProvider.Tracer.
type TracerOption func(*TracerConfig)

// TracerConfig is the resolved configuration from a TracerOption list.
type TracerConfig struct {
	InstrumentationVersion string
	SchemaURL              string
}

// WithInstrumentationVersion sets the scope's version.
func WithInstrumentationVersion(v string) TracerOption {
	return func(c *TracerConfig) { c.InstrumentationVersion = v }
}

// WithSchemaURL sets the scope's schema URL.
func WithSchemaURL(url string) TracerOption {
	return func(c *TracerConfig) { c.SchemaURL = url }
}

// NewTracerConfig resolves opts into a TracerConfig.
func NewTracerConfig(opts []TracerOption) TracerConfig {
	var c TracerConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
