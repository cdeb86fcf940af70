package trace

import (
	"time"

	"github.com/signalcore/telemetry-go/sdk/resource"
	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// ReadOnlySpan is the immutable view processors and exporters see. A
// recordingSpan satisfies it directly while open (each accessor takes the
// span's lock); End produces a detached snapshot value so export never holds
// a lock belonging to a span that could, in principle, still be mutated by a
// caller holding a stale reference.
type ReadOnlySpan interface {
	Name() string
	SpanContext() telemetry.SpanContext
	Parent() telemetry.SpanContext
	SpanKind() telemetry.SpanKind
	StartTime() time.Time
	EndTime() time.Time
	Attributes() []attribute.KeyValue
	DroppedAttributes() int
	Events() []telemetry.Event
	DroppedEvents() int
	Links() []telemetry.Link
	DroppedLinks() int
	Status() telemetry.Status
	InstrumentationScope() InstrumentationScope
	Resource() resource.Resource
}

// InstrumentationScope identifies the Tracer that produced a span.
type InstrumentationScope struct {
	Name      string
	Version   string
	SchemaURL string
}

// spanSnapshot is a value-typed copy of a span's final state, handed to
// processors from End so later (no-op) mutation attempts on the original
// span can never be observed by an exporter already holding the snapshot.
type spanSnapshot struct {
	name                 string
	spanContext          telemetry.SpanContext
	parent               telemetry.SpanContext
	spanKind             telemetry.SpanKind
	startTime            time.Time
	endTime              time.Time
	attributes           []attribute.KeyValue
	droppedAttributes    int
	events               []telemetry.Event
	droppedEvents        int
	links                []telemetry.Link
	droppedLinks         int
	status               telemetry.Status
	instrumentationScope InstrumentationScope
	resource             resource.Resource
}

func (s *spanSnapshot) Name() string                       { return s.name }
func (s *spanSnapshot) SpanContext() telemetry.SpanContext { return s.spanContext }
func (s *spanSnapshot) Parent() telemetry.SpanContext      { return s.parent }
func (s *spanSnapshot) SpanKind() telemetry.SpanKind       { return s.spanKind }
func (s *spanSnapshot) StartTime() time.Time               { return s.startTime }
func (s *spanSnapshot) EndTime() time.Time                 { return s.endTime }
func (s *spanSnapshot) Attributes() []attribute.KeyValue   { return s.attributes }
func (s *spanSnapshot) DroppedAttributes() int             { return s.droppedAttributes }
func (s *spanSnapshot) Events() []telemetry.Event          { return s.events }
func (s *spanSnapshot) DroppedEvents() int                 { return s.droppedEvents }
func (s *spanSnapshot) Links() []telemetry.Link            { return s.links }
func (s *spanSnapshot) DroppedLinks() int                  { return s.droppedLinks }
func (s *spanSnapshot) Status() telemetry.Status           { return s.status }
func (s *spanSnapshot) InstrumentationScope() InstrumentationScope {
	return s.instrumentationScope
}
func (s *spanSnapshot) Resource() resource.Resource { return s.resource }

var _ ReadOnlySpan = (*spanSnapshot)(nil)
