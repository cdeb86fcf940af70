package metric

import (
	"math/rand"
	"sort"
	"sync"
)

// explicitHistogramSnapshot is the content explicitHistogramAggregator.collect
// produces; the owning instrument's collection code fills in the remaining
// Attributes/StartTime/Time fields of the public HistogramDataPoint.
type explicitHistogramSnapshot struct {
	bounds     []float64
	counts     []uint64
	count      uint64
	sum        float64
	min, max   float64
	hasExtrema bool
	exemplar   *Exemplar
}

// explicitHistogramAggregator backs Histogram instruments whose view
// selects explicit bucket boundaries. update performs
// a binary search to find the bucket whose upper bound the value falls at
// or under, then an atomic-equivalent (mutex-protected) increment; the last
// bucket holds every value greater than the final bound.
type explicitHistogramAggregator struct {
	mu         sync.Mutex
	bounds     []float64
	counts     []uint64
	count      uint64
	sum        float64
	min, max   float64
	hasExtrema bool
	exemplar   *Exemplar
}

func newExplicitHistogramAggregator(bounds []float64) *explicitHistogramAggregator {
	b := append([]float64(nil), bounds...)
	sort.Float64s(b)
	return &explicitHistogramAggregator{bounds: b, counts: make([]uint64, len(b)+1)}
}

// bucketIndex returns the index of the bucket whose upper bound is the
// smallest bound >= value, or len(bounds) (the overflow bucket) if value
// exceeds every bound.
func bucketIndex(bounds []float64, value float64) int {
	return sort.SearchFloat64s(bounds, value)
}

func (a *explicitHistogramAggregator) update(value float64, ex *Exemplar) {
	idx := bucketIndex(a.bounds, value)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[idx]++
	a.count++
	a.sum += value
	if !a.hasExtrema {
		a.min, a.max = value, value
		a.hasExtrema = true
	} else {
		if value < a.min {
			a.min = value
		}
		if value > a.max {
			a.max = value
		}
	}
	// Reservoir-style exemplar retention: keep at most one exemplar per
	// collection window, replacing it with probability 1/count so every
	// measurement in the window has equal chance of being retained.
	if ex != nil && (a.exemplar == nil || rand.Int63n(int64(a.count)) == 0) {
		a.exemplar = ex
	}
}

func (a *explicitHistogramAggregator) collect(temporality Temporality) (explicitHistogramSnapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.count == 0 {
		return explicitHistogramSnapshot{}, false
	}
	snap := explicitHistogramSnapshot{
		bounds:     a.bounds,
		counts:     append([]uint64(nil), a.counts...),
		count:      a.count,
		sum:        a.sum,
		min:        a.min,
		max:        a.max,
		hasExtrema: a.hasExtrema,
		exemplar:   a.exemplar,
	}
	if temporality == TemporalityDelta {
		for i := range a.counts {
			a.counts[i] = 0
		}
		a.count = 0
		a.sum = 0
		a.hasExtrema = false
		a.exemplar = nil
	}
	return snap, true
}
