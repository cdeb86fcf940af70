package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanContextIsValid(t *testing.T) {
	var sc SpanContext
	assert.False(t, sc.IsValid())

	sc = NewSpanContext(NewTraceID(), NewSpanID(), FlagsSampled, TraceState{}, false)
	assert.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())
	assert.False(t, sc.IsRemote())
}

func TestSpanContextEqualIgnoresTraceState(t *testing.T) {
	traceID, spanID := NewTraceID(), NewSpanID()
	ts1, _ := TraceState{}.Insert("a", "1")
	ts2, _ := TraceState{}.Insert("b", "2")

	sc1 := NewSpanContext(traceID, spanID, FlagsSampled, ts1, false)
	sc2 := NewSpanContext(traceID, spanID, FlagsSampled, ts2, false)
	assert.True(t, sc1.Equal(sc2))
}

func TestSpanContextWithRemote(t *testing.T) {
	sc := NewSpanContext(NewTraceID(), NewSpanID(), 0, TraceState{}, false)
	remote := sc.WithRemote(true)
	assert.False(t, sc.IsRemote())
	assert.True(t, remote.IsRemote())
}

func TestSpanContextWithTraceState(t *testing.T) {
	sc := NewSpanContext(NewTraceID(), NewSpanID(), 0, TraceState{}, false)
	ts, _ := TraceState{}.Insert("k", "v")
	sc2 := sc.WithTraceState(ts)
	v, ok := sc2.TraceState().Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.True(t, sc.TraceState().IsEmpty())
}
