package attribute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueAccessors(t *testing.T) {
	assert.True(t, BoolValue(true).AsBool())
	assert.Equal(t, int64(42), Int64Value(42).AsInt64())
	assert.Equal(t, 3.14, Float64Value(3.14).AsFloat64())
	assert.Equal(t, "hi", StringValue("hi").AsString())
	assert.Equal(t, []bool{true, false}, BoolSliceValue([]bool{true, false}).AsBoolSlice())
}

func TestFloatNaNEqualByBitPattern(t *testing.T) {
	a := Float64Value(math.NaN())
	b := Float64Value(math.NaN())
	assert.True(t, a.equalBits(b))
}

func TestFloatPositiveNegativeZeroNotEqual(t *testing.T) {
	a := Float64Value(0)
	b := Float64Value(math.Copysign(0, -1))
	assert.False(t, a.equalBits(b))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "STRING", StringValue("x").Kind().String())
	assert.Equal(t, "INVALID", Value{}.Kind().String())
}
