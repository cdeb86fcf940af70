package metric

import (
	"math"
	"sync"
)

// expBucketStore holds a contiguous run of bucket counts for one sign
// (positive or negative values), growing on either end as new indices
// arrive and folding together under rescale.
type expBucketStore struct {
	offset int32
	counts []uint64
}

func (b *expBucketStore) empty() bool { return len(b.counts) == 0 }

func (b *expBucketStore) span(idx int32) int32 {
	if b.empty() {
		return 1
	}
	lo, hi := b.offset, b.offset+int32(len(b.counts))-1
	if idx < lo {
		lo = idx
	}
	if idx > hi {
		hi = idx
	}
	return hi - lo + 1
}

func (b *expBucketStore) increment(idx int32) {
	if b.empty() {
		b.offset = idx
		b.counts = []uint64{1}
		return
	}
	lo, hi := b.offset, b.offset+int32(len(b.counts))-1
	switch {
	case idx < lo:
		grown := make([]uint64, int32(len(b.counts))+(lo-idx))
		copy(grown[lo-idx:], b.counts)
		b.counts = grown
		b.offset = idx
	case idx > hi:
		b.counts = append(b.counts, make([]uint64, idx-hi)...)
	}
	b.counts[idx-b.offset]++
}

// rescale folds adjacent buckets together by delta scale steps: every
// index maps to index>>delta, halving resolution but preserving counts.
func (b *expBucketStore) rescale(delta int32) {
	if b.empty() {
		return
	}
	hi := b.offset + int32(len(b.counts)) - 1
	newOffset := b.offset >> uint(delta)
	newHi := hi >> uint(delta)
	newCounts := make([]uint64, newHi-newOffset+1)
	for i, c := range b.counts {
		if c == 0 {
			continue
		}
		idx := b.offset + int32(i)
		newCounts[(idx>>uint(delta))-newOffset] += c
	}
	b.offset = newOffset
	b.counts = newCounts
}

func (b expBucketStore) snapshot() ExponentialBucket {
	return ExponentialBucket{Offset: b.offset, Counts: append([]uint64(nil), b.counts...)}
}

// exponentialHistogramSnapshot is the content
// exponentialHistogramAggregator.collect produces; the remaining
// Attributes/StartTime/Time fields of the public
// ExponentialHistogramDataPoint are filled in by the owning instrument's
// collection code.
type exponentialHistogramSnapshot struct {
	scale      int32
	zeroCount  uint64
	positive   ExponentialBucket
	negative   ExponentialBucket
	count      uint64
	sum        float64
	min, max   float64
	hasExtrema bool
}

// exponentialHistogramAggregator backs Histogram instruments whose view
// selects base-2 exponential bucketing. Bucket index for a value v at scale
// s is ceil(log_base(|v|)) - 1, where base = 2^(2^-s); when a new index
// would make a bucket store exceed maxBuckets, the scale is reduced
// (buckets folded pairwise) by the minimum number of steps required to fit.
type exponentialHistogramAggregator struct {
	mu         sync.Mutex
	maxBuckets int32
	scale      int32
	zeroCount  uint64
	positive   expBucketStore
	negative   expBucketStore
	count      uint64
	sum        float64
	min, max   float64
	hasExtrema bool
}

func newExponentialHistogramAggregator(maxBuckets int, initialScale int32) *exponentialHistogramAggregator {
	return &exponentialHistogramAggregator{maxBuckets: int32(maxBuckets), scale: initialScale}
}

// indexForScale computes ceil(log_base(value)) - 1 for value > 0, where
// base = 2^(2^-scale); log_base(value) = log2(value) * 2^scale.
func indexForScale(value float64, scale int32) int32 {
	scaleFactor := math.Ldexp(1, int(scale))
	return int32(math.Ceil(math.Log2(value)*scaleFactor)) - 1
}

func (a *exponentialHistogramAggregator) update(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
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
	if value == 0 {
		a.zeroCount++
		return
	}
	abs := value
	store := &a.positive
	if value < 0 {
		abs = -value
		store = &a.negative
	}
	idx := indexForScale(abs, a.scale)
	for store.span(idx) > a.maxBuckets {
		a.rescaleLocked(1)
		idx = indexForScale(abs, a.scale)
	}
	store.increment(idx)
}

func (a *exponentialHistogramAggregator) rescaleLocked(delta int32) {
	a.scale -= delta
	a.positive.rescale(delta)
	a.negative.rescale(delta)
}

func (a *exponentialHistogramAggregator) collect(temporality Temporality) (exponentialHistogramSnapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.count == 0 {
		return exponentialHistogramSnapshot{}, false
	}
	snap := exponentialHistogramSnapshot{
		scale:      a.scale,
		zeroCount:  a.zeroCount,
		positive:   a.positive.snapshot(),
		negative:   a.negative.snapshot(),
		count:      a.count,
		sum:        a.sum,
		min:        a.min,
		max:        a.max,
		hasExtrema: a.hasExtrema,
	}
	if temporality == TemporalityDelta {
		a.zeroCount = 0
		a.positive = expBucketStore{}
		a.negative = expBucketStore{}
		a.count = 0
		a.sum = 0
		a.hasExtrema = false
	}
	return snap, true
}
