package attribute

import (
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Set is the canonical, immutable form of a KeyValue collection:
// last-write-wins deduplicated by key, sorted by key, with a precomputed
// 64-bit hash so it can be used directly as a map key for per-series
// aggregator state. The zero Set is valid and empty.
type Set struct {
	kvs  []KeyValue
	hash uint64
}

// NewSet builds a Set from kvs. Later entries win over earlier ones sharing
// a key (last-write-wins), the result is sorted by key, and the hash is
// precomputed once so repeated aggregator lookups are cheap.
func NewSet(kvs ...KeyValue) Set {
	dedup := make(map[Key]Value, len(kvs))
	order := make([]Key, 0, len(kvs))
	for _, kv := range kvs {
		if _, exists := dedup[kv.Key]; !exists {
			order = append(order, kv.Key)
		}
		dedup[kv.Key] = kv.Value
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make([]KeyValue, len(order))
	for i, k := range order {
		out[i] = KeyValue{Key: k, Value: dedup[k]}
	}
	s := Set{kvs: out}
	s.hash = computeHash(out)
	return s
}

// Len returns the number of distinct keys.
func (s Set) Len() int { return len(s.kvs) }

// ToSlice returns the sorted, deduplicated key-value pairs. The caller must
// not mutate the returned slice.
func (s Set) ToSlice() []KeyValue { return s.kvs }

// Get returns the value for key and whether it was present.
func (s Set) Get(key Key) (Value, bool) {
	// kvs is sorted, but linear scan is fine: attribute sets are small
	// (typically under a few dozen entries) and this keeps the common case
	// allocation-free versus building a side index.
	for _, kv := range s.kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

// Hash returns the precomputed 64-bit content hash, suitable for bucketing a
// Set in a concurrent map of per-series aggregator state.
func (s Set) Hash() uint64 { return s.hash }

// Equal reports whether two Sets contain pointwise-equal sorted sequences,
// using the float bit-pattern equality rule for FLOAT64/FLOAT64SLICE values,
// so NaN-bearing sets with equal bit patterns compare equal.
func (s Set) Equal(o Set) bool {
	if s.hash != o.hash || len(s.kvs) != len(o.kvs) {
		return false
	}
	for i := range s.kvs {
		if s.kvs[i].Key != o.kvs[i].Key {
			return false
		}
		if !s.kvs[i].Value.equalBits(o.kvs[i].Value) {
			return false
		}
	}
	return true
}

// computeHash feeds the sorted, deduplicated sequence through xxhash in a
// deterministic byte encoding: each entry contributes its key, a kind tag,
// and its bit-level value representation, so float NaN/±∞ values (which
// violate IEEE-754 equality) still hash deterministically and consistently
// with Value.equalBits.
func computeHash(kvs []KeyValue) uint64 {
	d := xxhash.New()
	var scratch [9]byte
	for _, kv := range kvs {
		_, _ = d.WriteString(string(kv.Key))
		d.Write([]byte{0})
		scratch[0] = byte(kv.Value.kind)
		putUint64(scratch[1:], kv.Value.numeric)
		d.Write(scratch[:])
		if kv.Value.kind == STRING {
			_, _ = d.WriteString(kv.Value.str)
		}
		hashSlice(d, kv.Value)
		d.Write([]byte{0xff})
	}
	return d.Sum64()
}

func hashSlice(d *xxhash.Digest, v Value) {
	switch v.kind {
	case BOOLSLICE:
		for _, b := range v.AsBoolSlice() {
			if b {
				d.Write([]byte{1})
			} else {
				d.Write([]byte{0})
			}
		}
	case INT64SLICE:
		var buf [8]byte
		for _, n := range v.AsInt64Slice() {
			putUint64(buf[:], uint64(n))
			d.Write(buf[:])
		}
	case FLOAT64SLICE:
		var buf [8]byte
		for _, f := range v.AsFloat64Slice() {
			putUint64(buf[:], floatBits(f))
			d.Write(buf[:])
		}
	case STRINGSLICE:
		for _, s := range v.AsStringSlice() {
			_, _ = d.WriteString(s)
			d.Write([]byte{0})
		}
	}
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func floatBits(f float64) uint64 { return Float64Value(f).numeric }
