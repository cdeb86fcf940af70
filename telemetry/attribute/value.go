// Package attribute implements the tagged attribute value model shared by
// spans, events, links, and metric measurements: a closed set of scalar and
// homogeneous-array kinds, plus a deduplicated, order-independent Set used
// as a map key for metric aggregation.
package attribute

import (
	"fmt"
	"math"
)

// Kind identifies which field of a Value is populated.
type Kind int

const (
	// INVALID is the zero Kind; a Value with this kind carries no data.
	INVALID Kind = iota
	BOOL
	INT64
	FLOAT64
	STRING
	BOOLSLICE
	INT64SLICE
	FLOAT64SLICE
	STRINGSLICE
)

// String renders the kind's name, used by debug formatting and test failure
// messages.
func (k Kind) String() string {
	switch k {
	case BOOL:
		return "BOOL"
	case INT64:
		return "INT64"
	case FLOAT64:
		return "FLOAT64"
	case STRING:
		return "STRING"
	case BOOLSLICE:
		return "BOOLSLICE"
	case INT64SLICE:
		return "INT64SLICE"
	case FLOAT64SLICE:
		return "FLOAT64SLICE"
	case STRINGSLICE:
		return "STRINGSLICE"
	default:
		return "INVALID"
	}
}

// Value is a tagged union over the scalar and homogeneous-array kinds this
// package defines. The zero Value is INVALID.
type Value struct {
	kind    Kind
	numeric uint64 // bool(0/1), int64 bits, or float64 bits, per kind
	str     string
	slice   interface{} // []bool, []int64, []float64 or []string
}

// BoolValue returns a Value carrying a bool.
func BoolValue(v bool) Value {
	n := uint64(0)
	if v {
		n = 1
	}
	return Value{kind: BOOL, numeric: n}
}

// Int64Value returns a Value carrying an int64.
func Int64Value(v int64) Value { return Value{kind: INT64, numeric: uint64(v)} }

// IntValue returns a Value carrying an int, widened to int64.
func IntValue(v int) Value { return Int64Value(int64(v)) }

// Float64Value returns a Value carrying a float64.
func Float64Value(v float64) Value { return Value{kind: FLOAT64, numeric: math.Float64bits(v)} }

// StringValue returns a Value carrying a string.
func StringValue(v string) Value { return Value{kind: STRING, str: v} }

// BoolSliceValue returns a Value carrying a []bool. The slice is copied.
func BoolSliceValue(v []bool) Value {
	cp := make([]bool, len(v))
	copy(cp, v)
	return Value{kind: BOOLSLICE, slice: cp}
}

// Int64SliceValue returns a Value carrying a []int64. The slice is copied.
func Int64SliceValue(v []int64) Value {
	cp := make([]int64, len(v))
	copy(cp, v)
	return Value{kind: INT64SLICE, slice: cp}
}

// Float64SliceValue returns a Value carrying a []float64. The slice is copied.
func Float64SliceValue(v []float64) Value {
	cp := make([]float64, len(v))
	copy(cp, v)
	return Value{kind: FLOAT64SLICE, slice: cp}
}

// StringSliceValue returns a Value carrying a []string. The slice is copied.
func StringSliceValue(v []string) Value {
	cp := make([]string, len(v))
	copy(cp, v)
	return Value{kind: STRINGSLICE, slice: cp}
}

// Kind reports which accessor is valid.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool          { return v.numeric == 1 }
func (v Value) AsInt64() int64        { return int64(v.numeric) }
func (v Value) AsFloat64() float64    { return math.Float64frombits(v.numeric) }
func (v Value) AsString() string      { return v.str }
func (v Value) AsBoolSlice() []bool   { return v.slice.([]bool) }
func (v Value) AsInt64Slice() []int64 { return v.slice.([]int64) }
func (v Value) AsFloat64Slice() []float64 { return v.slice.([]float64) }
func (v Value) AsStringSlice() []string   { return v.slice.([]string) }

// AsInterface returns the underlying value boxed as interface{}, for generic
// formatting paths (debug logging, exporters outside this module).
func (v Value) AsInterface() interface{} {
	switch v.kind {
	case BOOL:
		return v.AsBool()
	case INT64:
		return v.AsInt64()
	case FLOAT64:
		return v.AsFloat64()
	case STRING:
		return v.str
	case BOOLSLICE:
		return v.AsBoolSlice()
	case INT64SLICE:
		return v.AsInt64Slice()
	case FLOAT64SLICE:
		return v.AsFloat64Slice()
	case STRINGSLICE:
		return v.AsStringSlice()
	default:
		return nil
	}
}

// Emit renders a human-readable form, used by String() and debug exporters.
func (v Value) Emit() string {
	switch v.kind {
	case BOOL:
		return fmt.Sprintf("%t", v.AsBool())
	case INT64:
		return fmt.Sprintf("%d", v.AsInt64())
	case FLOAT64:
		return fmt.Sprintf("%g", v.AsFloat64())
	case STRING:
		return v.str
	default:
		return fmt.Sprintf("%v", v.AsInterface())
	}
}

func (v Value) String() string { return v.Emit() }

// equalBits reports value equality using float64's raw bit pattern rather
// than IEEE-754 comparison, so that NaN equals NaN and +0 does not equal -0
// in an AttributeSet's dedup/hash logic.
func (v Value) equalBits(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case BOOL, INT64, FLOAT64:
		return v.numeric == o.numeric
	case STRING:
		return v.str == o.str
	case BOOLSLICE:
		return boolSliceEqual(v.AsBoolSlice(), o.AsBoolSlice())
	case INT64SLICE:
		return int64SliceEqual(v.AsInt64Slice(), o.AsInt64Slice())
	case FLOAT64SLICE:
		return float64SliceEqualBits(v.AsFloat64Slice(), o.AsFloat64Slice())
	case STRINGSLICE:
		return stringSliceEqual(v.AsStringSlice(), o.AsStringSlice())
	default:
		return true
	}
}

func boolSliceEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func int64SliceEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func float64SliceEqualBits(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			return false
		}
	}
	return true
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
