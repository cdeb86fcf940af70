package metric

import (
	"time"

	"github.com/signalcore/telemetry-go/sdk/resource"
	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// Temporality describes whether an exported value is a running total since
// provider start or a delta since the previous collection.
type Temporality int

const (
	TemporalityCumulative Temporality = iota
	TemporalityDelta
)

func (t Temporality) String() string {
	if t == TemporalityDelta {
		return "delta"
	}
	return "cumulative"
}

// TemporalitySelector maps an instrument kind to the temporality its reader
// exports. LowMemorySelector prefers cumulative for observables (so the SDK
// need not remember a previous value across a long-running process) and
// delta for synchronous totals (so the SDK need not retain unbounded
// cumulative state).
type TemporalitySelector func(InstrumentKind) Temporality

// CumulativeTemporalitySelector always selects cumulative, the default.
func CumulativeTemporalitySelector(InstrumentKind) Temporality { return TemporalityCumulative }

// DeltaTemporalitySelector always selects delta.
func DeltaTemporalitySelector(InstrumentKind) Temporality { return TemporalityDelta }

// LowMemorySelector picks whichever temporality keeps less state resident.
func LowMemorySelector(kind InstrumentKind) Temporality {
	switch kind {
	case KindObservableCounter, KindObservableUpDownCounter, KindObservableGauge:
		return TemporalityCumulative
	default:
		return TemporalityDelta
	}
}

// Exemplar is a single raw measurement retained alongside an aggregated data
// point, linked to the span active at measurement time.
type Exemplar struct {
	FilteredAttributes []attribute.KeyValue
	Time               time.Time
	Value              float64
	SpanID             telemetry.SpanID
	TraceID            telemetry.TraceID
}

// DataPoint is one timeseries observation produced by a Sum, Gauge, or the
// precomputed-sum family.
type DataPoint struct {
	Attributes attribute.Set
	StartTime  time.Time
	Time       time.Time
	Value      float64
	Exemplars  []Exemplar
}

// Aggregation is the store of data reported by an instrument: one of Sum,
// Gauge, Histogram, ExponentialHistogram.
type Aggregation interface{ isAggregation() }

// Sum represents accumulated measurements from a Counter/UpDownCounter or
// their observable counterparts.
type Sum struct {
	DataPoints  []DataPoint
	Temporality Temporality
	IsMonotonic bool
}

func (Sum) isAggregation() {}

// Gauge represents the current value of an instrument.
type Gauge struct {
	DataPoints []DataPoint
}

func (Gauge) isAggregation() {}

// Histogram represents explicit-bucket histogram measurements.
type Histogram struct {
	DataPoints  []HistogramDataPoint
	Temporality Temporality
}

func (Histogram) isAggregation() {}

// HistogramDataPoint is one explicit-bucket histogram timeseries
// observation.
type HistogramDataPoint struct {
	Attributes   attribute.Set
	StartTime    time.Time
	Time         time.Time
	Count        uint64
	Bounds       []float64
	BucketCounts []uint64
	Sum          float64
	Min          float64
	Max          float64
	HasExtrema   bool
	Exemplars    []Exemplar
}

// ExponentialHistogram represents base-2 exponential-bucket histogram
// measurements.
type ExponentialHistogram struct {
	DataPoints  []ExponentialHistogramDataPoint
	Temporality Temporality
}

func (ExponentialHistogram) isAggregation() {}

// ExponentialBucket is a contiguous run of bucket counts starting at Offset.
type ExponentialBucket struct {
	Offset int32
	Counts []uint64
}

// ExponentialHistogramDataPoint is one exponential histogram timeseries
// observation.
type ExponentialHistogramDataPoint struct {
	Attributes     attribute.Set
	StartTime      time.Time
	Time           time.Time
	Count          uint64
	Sum            float64
	Min            float64
	Max            float64
	HasExtrema     bool
	Scale          int32
	ZeroCount      uint64
	PositiveBucket ExponentialBucket
	NegativeBucket ExponentialBucket
	Exemplars      []Exemplar
}

// Metrics is one instrument's aggregated output.
type Metrics struct {
	Name        string
	Description string
	Unit        string
	Data        Aggregation
}

// ScopeMetrics groups Metrics by the Meter (InstrumentationScope) that
// produced them.
type ScopeMetrics struct {
	Scope   InstrumentationScope
	Metrics []Metrics
}

// ResourceMetrics is a full collection snapshot: every ScopeMetrics produced
// by a MeterProvider's Meters, alongside the Resource identifying the
// process that collected them.
type ResourceMetrics struct {
	Resource     resource.Resource
	ScopeMetrics []ScopeMetrics
}
