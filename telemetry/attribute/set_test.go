package attribute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSetDedupesLastWriteWins(t *testing.T) {
	s := NewSet(String("k", "first"), String("k", "second"))
	assert.Equal(t, 1, s.Len())
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "second", v.AsString())
}

func TestNewSetSortsByKey(t *testing.T) {
	s := NewSet(String("b", "2"), String("a", "1"))
	kvs := s.ToSlice()
	assert.Equal(t, Key("a"), kvs[0].Key)
	assert.Equal(t, Key("b"), kvs[1].Key)
}

func TestSetEqualIgnoresOrder(t *testing.T) {
	s1 := NewSet(String("a", "1"), String("b", "2"))
	s2 := NewSet(String("b", "2"), String("a", "1"))
	assert.True(t, s1.Equal(s2))
	assert.Equal(t, s1.Hash(), s2.Hash())
}

func TestSetEqualWithNaN(t *testing.T) {
	s1 := NewSet(Float64("v", math.NaN()))
	s2 := NewSet(Float64("v", math.NaN()))
	assert.True(t, s1.Equal(s2))
	assert.Equal(t, s1.Hash(), s2.Hash())
}

func TestSetNotEqualDifferentValues(t *testing.T) {
	s1 := NewSet(Int64("n", 1))
	s2 := NewSet(Int64("n", 2))
	assert.False(t, s1.Equal(s2))
}

func TestEmptySetHashIsStable(t *testing.T) {
	assert.Equal(t, NewSet().Hash(), NewSet().Hash())
}
