package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExponentialHistogramRescalesToFitMaxBuckets: max_buckets=4, initial
// scale 3, values {1,2,4,8,16} must all fit within 4 positive buckets, which
// forces the scale down (to -1); count=5, sum=31.
func TestExponentialHistogramRescalesToFitMaxBuckets(t *testing.T) {
	a := newExponentialHistogramAggregator(4, 3)
	for _, v := range []float64{1, 2, 4, 8, 16} {
		a.update(v)
	}

	snap, ok := a.collect(TemporalityCumulative)
	require.True(t, ok)
	assert.Equal(t, uint64(5), snap.count)
	assert.Equal(t, 31.0, snap.sum)
	assert.Less(t, snap.scale, int32(3), "scale must have decreased to fit within max_buckets")
	assert.LessOrEqual(t, len(snap.positive.Counts), 4)

	var total uint64
	for _, c := range snap.positive.Counts {
		total += c
	}
	assert.Equal(t, uint64(5), total)
}

func TestExponentialHistogramZeroValuesGoToZeroCount(t *testing.T) {
	a := newExponentialHistogramAggregator(160, 20)
	a.update(0)
	a.update(0)
	a.update(1)

	snap, ok := a.collect(TemporalityCumulative)
	require.True(t, ok)
	assert.Equal(t, uint64(2), snap.zeroCount)
	assert.Equal(t, uint64(3), snap.count)
}

func TestExponentialHistogramNegativeValuesUseNegativeBucket(t *testing.T) {
	a := newExponentialHistogramAggregator(160, 20)
	a.update(-2)
	a.update(-4)

	snap, ok := a.collect(TemporalityCumulative)
	require.True(t, ok)
	assert.Empty(t, snap.positive.Counts)
	assert.NotEmpty(t, snap.negative.Counts)
	assert.Equal(t, -4.0, snap.min)
	assert.Equal(t, -2.0, snap.max)
}

func TestExponentialHistogramDeltaResetsAfterCollect(t *testing.T) {
	a := newExponentialHistogramAggregator(160, 20)
	a.update(1)
	snap, ok := a.collect(TemporalityDelta)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.count)

	_, ok = a.collect(TemporalityDelta)
	assert.False(t, ok)
}

func TestIndexForScaleMatchesBucketBoundaryDefinition(t *testing.T) {
	// At scale 0 (base 2), index i covers (2^i, 2^(i+1)]: 1 is at the
	// (1,2] boundary itself, landing in bucket -1 (ceil(log2(1))-1 = -1).
	assert.Equal(t, int32(-1), indexForScale(1, 0))
	assert.Equal(t, int32(0), indexForScale(2, 0))
	assert.Equal(t, int32(1), indexForScale(4, 0))
}
