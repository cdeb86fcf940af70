package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExplicitHistogramBucketingMatchesScenario: bounds [0,5,10,25,50,75,100],
// values {23,7,101,105} -> bucket counts [0,0,1,1,0,0,0,2], count=4, sum=236,
// min=7, max=105.
func TestExplicitHistogramBucketingMatchesScenario(t *testing.T) {
	a := newExplicitHistogramAggregator([]float64{0, 5, 10, 25, 50, 75, 100})
	for _, v := range []float64{23, 7, 101, 105} {
		a.update(v, nil)
	}

	snap, ok := a.collect(TemporalityCumulative)
	require.True(t, ok)
	assert.Equal(t, []uint64{0, 0, 1, 1, 0, 0, 0, 2}, snap.counts)
	assert.Equal(t, uint64(4), snap.count)
	assert.Equal(t, 236.0, snap.sum)
	assert.Equal(t, 7.0, snap.min)
	assert.Equal(t, 105.0, snap.max)
}

func TestExplicitHistogramDeltaResetsAfterCollect(t *testing.T) {
	a := newExplicitHistogramAggregator([]float64{0, 5, 10})
	a.update(3, nil)
	a.update(7, nil)

	snap, ok := a.collect(TemporalityDelta)
	require.True(t, ok)
	assert.Equal(t, uint64(2), snap.count)

	_, ok = a.collect(TemporalityDelta)
	assert.False(t, ok)

	a.update(1, nil)
	snap, ok = a.collect(TemporalityDelta)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.count)
}

func TestExplicitHistogramCumulativeAccumulatesAcrossCollections(t *testing.T) {
	a := newExplicitHistogramAggregator([]float64{0, 5, 10})
	a.update(1, nil)
	snap, _ := a.collect(TemporalityCumulative)
	assert.Equal(t, uint64(1), snap.count)

	a.update(2, nil)
	snap, _ = a.collect(TemporalityCumulative)
	assert.Equal(t, uint64(2), snap.count)
	assert.Equal(t, 3.0, snap.sum)
}

func TestExplicitHistogramEmptyAggregatorNotOk(t *testing.T) {
	a := newExplicitHistogramAggregator([]float64{0, 5, 10})
	_, ok := a.collect(TemporalityCumulative)
	assert.False(t, ok)
}
