package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalcore/telemetry-go/telemetry/attribute"
	"github.com/signalcore/telemetry-go/telemetry/baggage"
	"github.com/signalcore/telemetry-go/telemetry/codes"
)

type recordingSpan struct {
	sc     SpanContext
	status codes.Code
	ended  bool
}

func (s *recordingSpan) SpanContext() SpanContext { return s.sc }
func (s *recordingSpan) IsRecording() bool         { return !s.ended }
func (s *recordingSpan) SetName(string)            {}
func (*recordingSpan) SetAttributes(...attribute.KeyValue) {}
func (*recordingSpan) AddEvent(string, ...EventOption) {}
func (*recordingSpan) RecordError(error, ...EventOption) {}
func (s *recordingSpan) SetStatus(code codes.Code, _ string) { s.status = code }
func (s *recordingSpan) End(...EndOption)          { s.ended = true }

func TestSpanFromContextDefaultsToNoop(t *testing.T) {
	s := SpanFromContext(context.Background())
	assert.False(t, s.IsRecording())
	assert.False(t, s.SpanContext().IsValid())
}

func TestContextWithSpanRoundTrip(t *testing.T) {
	want := &recordingSpan{sc: NewSpanContext(NewTraceID(), NewSpanID(), FlagsSampled, TraceState{}, false)}
	ctx := ContextWithSpan(context.Background(), want)
	got := SpanFromContext(ctx)
	assert.Equal(t, want, got)
}

func TestContextWithSpanContextIsNonRecording(t *testing.T) {
	sc := NewSpanContext(NewTraceID(), NewSpanID(), FlagsSampled, TraceState{}, true)
	ctx := ContextWithSpanContext(context.Background(), sc)
	s := SpanFromContext(ctx)
	assert.False(t, s.IsRecording())
	assert.True(t, s.SpanContext().Equal(sc))
}

func TestBaggageFromContextDefaultsToEmpty(t *testing.T) {
	b := BaggageFromContext(context.Background())
	assert.Equal(t, 0, b.Len())
}

func TestContextWithBaggageRoundTrip(t *testing.T) {
	m, _ := baggage.NewMember("k", "v")
	ctx := ContextWithBaggage(context.Background(), baggage.New(m))
	got := BaggageFromContext(ctx)
	v, ok := got.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestAttachDetachRestoresParent(t *testing.T) {
	parent := context.Background()
	span := &recordingSpan{sc: NewSpanContext(NewTraceID(), NewSpanID(), 0, TraceState{}, false)}
	ctx, guard := Attach(parent, span)
	assert.Equal(t, span, SpanFromContext(ctx))
	restored := guard.Detach()
	assert.Equal(t, parent, restored)
}
