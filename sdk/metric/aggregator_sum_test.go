package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSumAggregatorCumulativeAndDelta: add(5), add(3), collect -> cumulative
// 8, delta 8; add(2), collect -> cumulative 10, delta 2.
func TestSumAggregatorCumulativeAndDelta(t *testing.T) {
	cumulative := newSumAggregator()
	cumulative.update(5)
	cumulative.update(3)
	assert.Equal(t, 8.0, cumulative.collect(TemporalityCumulative))
	cumulative.update(2)
	assert.Equal(t, 10.0, cumulative.collect(TemporalityCumulative))

	delta := newSumAggregator()
	delta.update(5)
	delta.update(3)
	assert.Equal(t, 8.0, delta.collect(TemporalityDelta))
	delta.update(2)
	assert.Equal(t, 2.0, delta.collect(TemporalityDelta))
}

func TestPrecomputedSumAggregatorDeltaDiffsConsecutiveObservations(t *testing.T) {
	a := newPrecomputedSumAggregator()

	a.update(8)
	v, ok := a.collect(TemporalityDelta)
	assert.True(t, ok)
	assert.Equal(t, 8.0, v)

	a.update(10)
	v, ok = a.collect(TemporalityDelta)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestPrecomputedSumAggregatorCumulativeReportsAsIs(t *testing.T) {
	a := newPrecomputedSumAggregator()
	a.update(8)
	v, ok := a.collect(TemporalityCumulative)
	assert.True(t, ok)
	assert.Equal(t, 8.0, v)
}

func TestPrecomputedSumAggregatorNotOkWithoutObservation(t *testing.T) {
	a := newPrecomputedSumAggregator()
	_, ok := a.collect(TemporalityCumulative)
	assert.False(t, ok)
}
