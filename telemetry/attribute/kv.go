package attribute

// Key is an attribute name. It is a distinct type rather than a bare string
// so that constructor functions (attribute.String, attribute.Int64, ...) read
// naturally at call sites: attribute.Key("http.method").String("GET").
type Key string

// KeyValue pairs a Key with a Value. It is the unit stored in an AttributeSet
// and passed to SetAttributes/AddEvent/Link calls.
type KeyValue struct {
	Key   Key
	Value Value
}

// Bool returns a KeyValue for a bool attribute.
func (k Key) Bool(v bool) KeyValue { return KeyValue{Key: k, Value: BoolValue(v)} }

// Int64 returns a KeyValue for an int64 attribute.
func (k Key) Int64(v int64) KeyValue { return KeyValue{Key: k, Value: Int64Value(v)} }

// Int returns a KeyValue for an int attribute, widened to int64.
func (k Key) Int(v int) KeyValue { return KeyValue{Key: k, Value: IntValue(v)} }

// Float64 returns a KeyValue for a float64 attribute.
func (k Key) Float64(v float64) KeyValue { return KeyValue{Key: k, Value: Float64Value(v)} }

// String returns a KeyValue for a string attribute.
func (k Key) String(v string) KeyValue { return KeyValue{Key: k, Value: StringValue(v)} }

// BoolSlice returns a KeyValue for a []bool attribute.
func (k Key) BoolSlice(v []bool) KeyValue { return KeyValue{Key: k, Value: BoolSliceValue(v)} }

// Int64Slice returns a KeyValue for a []int64 attribute.
func (k Key) Int64Slice(v []int64) KeyValue { return KeyValue{Key: k, Value: Int64SliceValue(v)} }

// Float64Slice returns a KeyValue for a []float64 attribute.
func (k Key) Float64Slice(v []float64) KeyValue {
	return KeyValue{Key: k, Value: Float64SliceValue(v)}
}

// StringSlice returns a KeyValue for a []string attribute.
func (k Key) StringSlice(v []string) KeyValue { return KeyValue{Key: k, Value: StringSliceValue(v)} }

// Package-level constructors mirroring the Key methods, for call sites that
// prefer attribute.String("k", "v") over attribute.Key("k").String("v").

func Bool(k string, v bool) KeyValue       { return Key(k).Bool(v) }
func Int64(k string, v int64) KeyValue     { return Key(k).Int64(v) }
func Int(k string, v int) KeyValue         { return Key(k).Int(v) }
func Float64(k string, v float64) KeyValue { return Key(k).Float64(v) }
func String(k string, v string) KeyValue   { return Key(k).String(v) }
