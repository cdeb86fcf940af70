package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveStreamsFallsBackToKindDefault(t *testing.T) {
	id := newInstrumentID(KindCounter, "requests", "", "")
	streams := resolveStreams(id, "scope", nil)
	require.Len(t, streams, 1)
	assert.Equal(t, AggregationSum, streams[0].Aggregation)
}

func TestResolveStreamsHistogramDefaultsToExplicitBounds(t *testing.T) {
	id := newInstrumentID(KindHistogram, "latency", "", "")
	streams := resolveStreams(id, "scope", nil)
	require.Len(t, streams, 1)
	assert.Equal(t, AggregationExplicitHistogram, streams[0].Aggregation)
	assert.Equal(t, DefaultHistogramBounds, streams[0].ExplicitBounds)
}

// TestResolveStreamsMultipleViewsProduceMultipleStreams: an instrument
// matching two Views gets two independent output streams, not just the
// first match.
func TestResolveStreamsMultipleViewsProduceMultipleStreams(t *testing.T) {
	custom := []float64{1, 2, 3}
	views := []View{
		NewView(Criteria{InstrumentName: "latency.*"}, Stream{Aggregation: AggregationExplicitHistogram, ExplicitBounds: custom}),
		NewView(Criteria{InstrumentName: "latency.*"}, Stream{Aggregation: AggregationDrop}),
	}
	id := newInstrumentID(KindHistogram, "latency.p99", "", "")
	streams := resolveStreams(id, "scope", views)
	require.Len(t, streams, 2)
	assert.Equal(t, AggregationExplicitHistogram, streams[0].Aggregation)
	assert.Equal(t, custom, streams[0].ExplicitBounds)
	assert.Equal(t, AggregationDrop, streams[1].Aggregation)
}

func TestResolveStreamsViewCanDropInstrument(t *testing.T) {
	views := []View{NewView(Criteria{InstrumentName: "debug.*"}, Stream{Aggregation: AggregationDrop})}
	id := newInstrumentID(KindCounter, "debug.calls", "", "")
	streams := resolveStreams(id, "scope", views)
	require.Len(t, streams, 1)
	assert.Equal(t, AggregationDrop, streams[0].Aggregation)
}

func TestCriteriaMatchesKindAndScope(t *testing.T) {
	kind := KindHistogram
	c := Criteria{Kind: &kind, ScopeName: "svc-*"}
	id := newInstrumentID(KindHistogram, "latency", "", "")
	assert.True(t, c.matches(id, "svc-checkout"))
	assert.False(t, c.matches(id, "other"))

	counterID := newInstrumentID(KindCounter, "requests", "", "")
	assert.False(t, c.matches(counterID, "svc-checkout"))
}
