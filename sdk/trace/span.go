package trace

import (
	"fmt"
	"sync"
	"time"

	"github.com/signalcore/telemetry-go/internal/telemetrystats"
	"github.com/signalcore/telemetry-go/sdk/resource"
	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
	"github.com/signalcore/telemetry-go/telemetry/codes"
)

// recordingSpan is the concrete, mutable Span implementation produced by a
// sampled Start call. Every mutator takes mu; End flips ended and is
// idempotent. Mutators after End are no-ops, matching the invariant that an
// ended span is immutable.
type recordingSpan struct {
	mu sync.Mutex

	name      string
	spanCtx   telemetry.SpanContext
	parentCtx telemetry.SpanContext
	kind      telemetry.SpanKind
	scope     InstrumentationScope

	startTime time.Time
	endTime   time.Time
	ended     bool

	attrs      boundedAttrs
	events     boundedEvents
	links      boundedLinks
	status     telemetry.Status
	processors []SpanProcessor
	provider   *TracerProvider
}

var _ telemetry.Span = (*recordingSpan)(nil)

func newRecordingSpan(name string, spanCtx, parentCtx telemetry.SpanContext, cfg telemetry.SpanStartConfig, scope InstrumentationScope, provider *TracerProvider) *recordingSpan {
	limits := provider.limits
	s := &recordingSpan{
		name:       name,
		spanCtx:    spanCtx,
		parentCtx:  parentCtx,
		kind:       cfg.Kind,
		scope:      scope,
		startTime:  cfg.Timestamp,
		attrs:      newBoundedAttrs(limits.AttributeCountLimit),
		events:     newBoundedEvents(limits.EventCountLimit, limits.AttributePerEventCountLimit),
		links:      newBoundedLinks(limits.LinkCountLimit, limits.AttributePerLinkCountLimit),
		processors: provider.processors,
		provider:   provider,
	}
	s.attrs.add(cfg.Attributes...)
	for _, l := range cfg.Links {
		s.links.add(l)
	}
	return s
}

func (s *recordingSpan) SpanContext() telemetry.SpanContext { return s.spanCtx }

func (s *recordingSpan) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

func (s *recordingSpan) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.name = name
}

func (s *recordingSpan) SetAttributes(kvs ...attribute.KeyValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	dropped := s.attrs.add(kvs...)
	if dropped > 0 {
		telemetrystats.Count(telemetrystats.MetricSpanAttributesDropped, int64(dropped))
	}
}

func (s *recordingSpan) AddEvent(name string, opts ...telemetry.EventOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.addEventLocked(name, opts...)
}

func (s *recordingSpan) addEventLocked(name string, opts ...telemetry.EventOption) {
	ts, attrs := telemetry.NewEventConfig(opts)
	dropped := s.events.add(telemetry.Event{Name: name, Time: ts, Attributes: attrs})
	if dropped {
		telemetrystats.Incr(telemetrystats.MetricSpanEventsDropped)
	}
}

const (
	exceptionEventName  = "exception"
	exceptionMessageKey = "exception.message"
)

// RecordError appends a synthetic "exception" event without altering the
// span's status; callers that want the span marked failed must call
// SetStatus themselves.
func (s *recordingSpan) RecordError(err error, opts ...telemetry.EventOption) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	opts = append(opts, telemetry.WithAttributes(attribute.String(exceptionMessageKey, err.Error())))
	s.addEventLocked(exceptionEventName, opts...)
}

// SetStatus applies the Unset→{Ok,Error}, Error→Ok, Ok→* (ignored)
// transition table; codes.Ok is sticky once set, and a request to go back to
// Unset is ignored.
func (s *recordingSpan) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	if s.status.Code == codes.Ok || code == codes.Unset {
		return
	}
	s.status = telemetry.Status{Code: code, Description: description}
}

func (s *recordingSpan) End(opts ...telemetry.EndOption) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.endTime = telemetry.NewEndConfig(opts)
	if s.endTime.IsZero() {
		s.endTime = time.Now()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.provider.onEnd()
	for _, p := range s.processors {
		p.OnEnd(snap)
	}
}

func (s *recordingSpan) snapshotLocked() *spanSnapshot {
	return &spanSnapshot{
		name:                 s.name,
		spanContext:          s.spanCtx,
		parent:               s.parentCtx,
		spanKind:             s.kind,
		startTime:            s.startTime,
		endTime:              s.endTime,
		attributes:           s.attrs.toSlice(),
		droppedAttributes:    s.attrs.dropped,
		events:               s.events.toSlice(),
		droppedEvents:        s.events.dropped,
		links:                s.links.toSlice(),
		droppedLinks:         s.links.dropped,
		status:               s.status,
		instrumentationScope: s.scope,
		resource:             s.provider.resource,
	}
}

// ReadOnlySpan accessors, used by processors while the span may still be
// open (e.g. OnStart) as well as after End via the snapshot.

func (s *recordingSpan) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *recordingSpan) Parent() telemetry.SpanContext { return s.parentCtx }

func (s *recordingSpan) SpanKind() telemetry.SpanKind { return s.kind }

func (s *recordingSpan) StartTime() time.Time { return s.startTime }

func (s *recordingSpan) EndTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endTime
}

func (s *recordingSpan) Attributes() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs.toSlice()
}

func (s *recordingSpan) DroppedAttributes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attrs.dropped
}

func (s *recordingSpan) Events() []telemetry.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.toSlice()
}

func (s *recordingSpan) DroppedEvents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.dropped
}

func (s *recordingSpan) Links() []telemetry.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links.toSlice()
}

func (s *recordingSpan) DroppedLinks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.links.dropped
}

func (s *recordingSpan) Status() telemetry.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *recordingSpan) InstrumentationScope() InstrumentationScope { return s.scope }

func (s *recordingSpan) Resource() resource.Resource { return s.provider.resource }

func (s *recordingSpan) String() string {
	return fmt.Sprintf("span(name=%s trace=%s span=%s)", s.Name(), s.spanCtx.TraceID(), s.spanCtx.SpanID())
}
