package metric

import "path"

// AggregationKind selects which aggregator backs a stream.
type AggregationKind int

const (
	// AggregationDefault defers to the instrument kind's own default: Sum
	// for Counter/UpDownCounter and their observable forms, LastValue for
	// Gauge/ObservableGauge, explicit-bucket Histogram for Histogram.
	AggregationDefault AggregationKind = iota
	AggregationSum
	AggregationLastValue
	AggregationExplicitHistogram
	AggregationExponentialHistogram
	AggregationDrop
)

// DefaultHistogramBounds are the explicit bucket boundaries used when a
// Histogram instrument has no view overriding its aggregation.
var DefaultHistogramBounds = []float64{0, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

// DefaultMaxExponentialBuckets bounds each sign's bucket count when a view
// selects exponential histogram aggregation without specifying its own.
const DefaultMaxExponentialBuckets = 160

// DefaultExponentialScale is the starting resolution for exponential
// histograms; update's rescale folds it down only as measurements demand.
const DefaultExponentialScale = 20

// Stream describes how one instrument's measurements are aggregated and
// exported, after applying a matching View (or the kind's default
// aggregation if none match). An instrument with several matching Views
// produces one Stream per match, each aggregated and exported independently.
type Stream struct {
	Name                  string
	Description           string
	Aggregation           AggregationKind
	ExplicitBounds        []float64
	MaxExponentialBuckets int
	ExponentialScale      int32
}

// Criteria selects which instruments a View applies to. Empty fields match
// anything; InstrumentName and ScopeName are glob patterns (path.Match
// syntax). Kind, when non-nil, restricts to a single InstrumentKind.
type Criteria struct {
	InstrumentName string
	Kind           *InstrumentKind
	Unit           string
	ScopeName      string
}

func (c Criteria) matches(id instrumentID, scopeName string) bool {
	if c.InstrumentName != "" {
		if ok, _ := path.Match(c.InstrumentName, id.name); !ok {
			return false
		}
	}
	if c.Kind != nil && *c.Kind != id.kind {
		return false
	}
	if c.Unit != "" && c.Unit != id.unit {
		return false
	}
	if c.ScopeName != "" {
		if ok, _ := path.Match(c.ScopeName, scopeName); !ok {
			return false
		}
	}
	return true
}

// View overrides the stream produced for instruments matching Criteria.
// When multiple Views match the same instrument, each produces its own
// output Stream: the instrument's measurements feed every matching
// Stream's aggregator independently.
type View struct {
	criteria Criteria
	stream   Stream
}

// NewView constructs a View; an empty Criteria matches every instrument, so
// Views meant to customize a single instrument should set InstrumentName.
func NewView(criteria Criteria, stream Stream) View {
	return View{criteria: criteria, stream: stream}
}

// resolveStreams returns one fully-defaulted Stream per View whose Criteria
// matches id, in registration order. When no View matches, the instrument
// gets a single Stream built from the kind's own default aggregation.
func resolveStreams(id instrumentID, scopeName string, views []View) []Stream {
	var matched []Stream
	for _, v := range views {
		if v.criteria.matches(id, scopeName) {
			matched = append(matched, fillDefaults(id, v.stream))
		}
	}
	if len(matched) == 0 {
		return []Stream{fillDefaults(id, Stream{})}
	}
	return matched
}

func fillDefaults(id instrumentID, s Stream) Stream {
	if s.Name == "" {
		s.Name = id.name
	}
	if s.Description == "" {
		s.Description = id.description
	}
	if s.Aggregation == AggregationDefault {
		s.Aggregation = defaultAggregationFor(id.kind)
	}
	if s.Aggregation == AggregationExplicitHistogram && s.ExplicitBounds == nil {
		s.ExplicitBounds = DefaultHistogramBounds
	}
	if s.Aggregation == AggregationExponentialHistogram {
		if s.MaxExponentialBuckets == 0 {
			s.MaxExponentialBuckets = DefaultMaxExponentialBuckets
		}
		if s.ExponentialScale == 0 {
			s.ExponentialScale = DefaultExponentialScale
		}
	}
	return s
}

func defaultAggregationFor(kind InstrumentKind) AggregationKind {
	switch kind {
	case KindGauge, KindObservableGauge:
		return AggregationLastValue
	case KindHistogram:
		return AggregationExplicitHistogram
	default:
		return AggregationSum
	}
}
