package metric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/signalcore/telemetry-go/internal/global"
	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/internal/telemetrystats"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// InstrumentationScope identifies the Meter that produced a ScopeMetrics
//, mirroring the tracing SDK's scope of the same shape.
type InstrumentationScope struct {
	Name      string
	Version   string
	SchemaURL string
}

// Meter creates instruments and owns their attribute-set-keyed series
// storage. A Meter is obtained from a MeterProvider and
// cached per InstrumentationScope, mirroring the tracing SDK's Tracer
// caching.
type Meter struct {
	scope    InstrumentationScope
	provider *MeterProvider

	mu               sync.RWMutex
	instruments      map[instrumentID]*instrumentState
	byNormalizedName map[string]instrumentID

	cbMu      sync.Mutex
	callbacks []*registeredCallback
}

func newMeter(scope InstrumentationScope, provider *MeterProvider) *Meter {
	return &Meter{
		scope:            scope,
		provider:         provider,
		instruments:      make(map[instrumentID]*instrumentState),
		byNormalizedName: make(map[string]instrumentID),
	}
}

func (m *Meter) getOrCreateInstrument(id instrumentID) (*instrumentState, error) {
	if err := ValidateInstrumentName(id.name); err != nil {
		return nil, err
	}
	if err := ValidateUnit(id.unit); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.instruments[id]; ok {
		return st, nil
	}
	if prior, ok := m.byNormalizedName[id.normalizedName]; ok && prior != id {
		log.Warn("metric: instrument %q registered more than once with differing kind/description/unit on scope %q", id.name, m.scope.Name)
	}
	streams := resolveStreams(id, m.scope.Name, m.provider.views)
	st := newInstrumentState(id, streams)
	m.instruments[id] = st
	m.byNormalizedName[id.normalizedName] = id
	return st, nil
}

func (m *Meter) measure(id instrumentID, value float64, attrs []attribute.KeyValue) {
	m.mu.RLock()
	st, ok := m.instruments[id]
	m.mu.RUnlock()
	if !ok {
		return
	}
	st.update(value, attrs)
}

// Counter creates (or returns the existing) Counter instrument named name.
func (m *Meter) Counter(name string, opts ...InstrumentOption) (Counter, error) {
	h, err := m.newHandle(KindCounter, name, opts)
	return Counter{h: h}, err
}

// UpDownCounter creates (or returns the existing) UpDownCounter instrument.
func (m *Meter) UpDownCounter(name string, opts ...InstrumentOption) (UpDownCounter, error) {
	h, err := m.newHandle(KindUpDownCounter, name, opts)
	return UpDownCounter{h: h}, err
}

// Histogram creates (or returns the existing) Histogram instrument.
func (m *Meter) Histogram(name string, opts ...InstrumentOption) (Histogram, error) {
	h, err := m.newHandle(KindHistogram, name, opts)
	return Histogram{h: h}, err
}

// Gauge creates (or returns the existing) Gauge instrument.
func (m *Meter) Gauge(name string, opts ...InstrumentOption) (Gauge, error) {
	h, err := m.newHandle(KindGauge, name, opts)
	return Gauge{h: h}, err
}

func (m *Meter) newHandle(kind InstrumentKind, name string, opts []InstrumentOption) (handle, error) {
	cfg := newInstrumentConfig(opts)
	id := newInstrumentID(kind, name, cfg.description, cfg.unit)
	if _, err := m.getOrCreateInstrument(id); err != nil {
		global.Handle(err)
		return handle{}, err
	}
	return handle{id: id, meter: m}, nil
}

// ObservableCounter registers an always-increasing asynchronous instrument.
// Its value is reported, not accumulated, by the Callbacks registered
// against it via RegisterCallback.
func (m *Meter) ObservableCounter(name string, opts ...InstrumentOption) (Observable, error) {
	return buildObservable(m, KindObservableCounter, name, opts)
}

// ObservableUpDownCounter registers an asynchronous instrument whose
// reported value may increase or decrease.
func (m *Meter) ObservableUpDownCounter(name string, opts ...InstrumentOption) (Observable, error) {
	return buildObservable(m, KindObservableUpDownCounter, name, opts)
}

// ObservableGauge registers an asynchronous instrument reporting the
// current value of some quantity.
func (m *Meter) ObservableGauge(name string, opts ...InstrumentOption) (Observable, error) {
	return buildObservable(m, KindObservableGauge, name, opts)
}

func buildObservable(m *Meter, kind InstrumentKind, name string, opts []InstrumentOption) (Observable, error) {
	cfg := newInstrumentConfig(opts)
	id := newInstrumentID(kind, name, cfg.description, cfg.unit)
	if _, err := m.getOrCreateInstrument(id); err != nil {
		global.Handle(err)
		return Observable{}, err
	}
	return Observable{id: id}, nil
}

type registeredCallback struct {
	fn        Callback
	observles map[instrumentID]struct{}
}

// RegisterCallback arranges for fn to be invoked once per collection,
// reporting the current value of every Observable it names. The returned
// Registration's Unregister stops future invocations.
func (m *Meter) RegisterCallback(fn Callback, observables ...Observable) (Registration, error) {
	if fn == nil {
		return nil, fmt.Errorf("metric: RegisterCallback requires a non-nil Callback")
	}
	allowed := make(map[instrumentID]struct{}, len(observables))
	for _, o := range observables {
		allowed[o.id] = struct{}{}
	}
	rc := &registeredCallback{fn: fn, observles: allowed}

	m.cbMu.Lock()
	m.callbacks = append(m.callbacks, rc)
	m.cbMu.Unlock()

	return &callbackRegistration{meter: m, cb: rc}, nil
}

type callbackRegistration struct {
	meter *Meter
	cb    *registeredCallback
}

func (r *callbackRegistration) Unregister() error {
	r.meter.cbMu.Lock()
	defer r.meter.cbMu.Unlock()
	for i, c := range r.meter.callbacks {
		if c == r.cb {
			r.meter.callbacks = append(r.meter.callbacks[:i], r.meter.callbacks[i+1:]...)
			break
		}
	}
	return nil
}

// runCallbacks invokes every registered callback once, each bounded by
// deadline: a callback that does not return in time is abandoned and its
// error (context.DeadlineExceeded) is reported through the global error
// handler rather than blocking the rest of the collection.
func (m *Meter) runCallbacks(ctx context.Context, deadline time.Duration) {
	m.cbMu.Lock()
	callbacks := append([]*registeredCallback(nil), m.callbacks...)
	m.cbMu.Unlock()

	for _, c := range callbacks {
		cbCtx, cancel := context.WithTimeout(ctx, deadline)
		obs := &observerResult{meter: m, allowed: c.observles}
		done := make(chan error, 1)
		go func(cb *registeredCallback) { done <- cb.fn(cbCtx, obs) }(c)
		select {
		case err := <-done:
			if err != nil {
				global.Handle(err)
			}
		case <-cbCtx.Done():
			global.Handle(cbCtx.Err())
		}
		cancel()
	}
}

// collect runs every registered callback, then snapshots every instrument's
// series, applying stale-series eviction.
func (m *Meter) collect(ctx context.Context, callbackDeadline time.Duration, temporality TemporalitySelector) ScopeMetrics {
	m.runCallbacks(ctx, callbackDeadline)

	m.mu.RLock()
	states := make([]*instrumentState, 0, len(m.instruments))
	for _, st := range m.instruments {
		states = append(states, st)
	}
	m.mu.RUnlock()

	now := time.Now()
	out := ScopeMetrics{Scope: m.scope}
	for _, st := range states {
		t := temporality(st.id.kind)
		out.Metrics = append(out.Metrics, st.collect(t, now)...)
	}
	return out
}

// instrumentState is one instrument's identity plus one streamState per
// View that matched it at creation time (§4.F: multiple matching views
// produce multiple output streams from one instrument). A measurement
// recorded against the instrument feeds every one of its streams.
type instrumentState struct {
	id      instrumentID
	streams []*streamState
}

// streamState is a single resolved output Stream's aggregator factory and
// attribute-set-keyed series map.
type streamState struct {
	stream        Stream
	newAggregator func() interface{}

	seriesMu sync.Mutex
	series   map[uint64][]*seriesEntry
}

type seriesEntry struct {
	set             attribute.Set
	aggregator      interface{}
	startTime       time.Time
	lastCollectTime time.Time
	touchedSinceLastCollect bool
	staleEpochs     int
}

func newInstrumentState(id instrumentID, streams []Stream) *instrumentState {
	st := &instrumentState{id: id, streams: make([]*streamState, len(streams))}
	for i, s := range streams {
		st.streams[i] = &streamState{
			stream:        s,
			newAggregator: newAggregatorFactory(id, s),
			series:        make(map[uint64][]*seriesEntry),
		}
	}
	return st
}

func newAggregatorFactory(id instrumentID, stream Stream) func() interface{} {
	switch stream.Aggregation {
	case AggregationSum:
		if id.kind.synchronous() {
			return func() interface{} { return newSumAggregator() }
		}
		return func() interface{} { return newPrecomputedSumAggregator() }
	case AggregationLastValue:
		return func() interface{} { return newLastValueAggregator() }
	case AggregationExplicitHistogram:
		bounds := stream.ExplicitBounds
		return func() interface{} { return newExplicitHistogramAggregator(bounds) }
	case AggregationExponentialHistogram:
		maxBuckets := stream.MaxExponentialBuckets
		scale := stream.ExponentialScale
		return func() interface{} { return newExponentialHistogramAggregator(maxBuckets, scale) }
	default:
		return nil
	}
}

func (st *instrumentState) update(value float64, attrs []attribute.KeyValue) {
	set := attribute.NewSet(attrs...)
	for _, s := range st.streams {
		s.update(value, set)
	}
}

func (st *instrumentState) collect(temporality Temporality, now time.Time) []Metrics {
	out := make([]Metrics, 0, len(st.streams))
	for _, s := range st.streams {
		if metrics, ok := s.collect(st.id, temporality, now); ok {
			out = append(out, metrics)
		}
	}
	return out
}

func (s *streamState) update(value float64, set attribute.Set) {
	if s.newAggregator == nil {
		return // AggregationDrop: measurement intentionally discarded
	}
	hash := set.Hash()

	s.seriesMu.Lock()
	var entry *seriesEntry
	for _, e := range s.series[hash] {
		if e.set.Equal(set) {
			entry = e
			break
		}
	}
	if entry == nil {
		now := time.Now()
		entry = &seriesEntry{set: set, aggregator: s.newAggregator(), startTime: now, lastCollectTime: now}
		s.series[hash] = append(s.series[hash], entry)
	}
	entry.touchedSinceLastCollect = true
	s.seriesMu.Unlock()

	switch agg := entry.aggregator.(type) {
	case *sumAggregator:
		agg.update(value)
	case *precomputedSumAggregator:
		agg.update(value)
	case *lastValueAggregator:
		agg.update(value)
	case *explicitHistogramAggregator:
		agg.update(value, nil)
	case *exponentialHistogramAggregator:
		agg.update(value)
	}
}

func (s *streamState) collect(id instrumentID, temporality Temporality, now time.Time) (Metrics, bool) {
	if s.stream.Aggregation == AggregationDrop {
		return Metrics{}, false
	}

	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()

	var sumPoints []DataPoint
	var gaugePoints []DataPoint
	var histPoints []HistogramDataPoint
	var expPoints []ExponentialHistogramDataPoint

	for hash, bucket := range s.series {
		kept := bucket[:0]
		for _, e := range bucket {
			if e.touchedSinceLastCollect {
				e.staleEpochs = 0
			} else {
				e.staleEpochs++
			}
			e.touchedSinceLastCollect = false

			if e.staleEpochs >= staleEvictionThreshold {
				telemetrystats.Incr(telemetrystats.MetricMetricSeriesEvicted)
				continue
			}
			kept = append(kept, e)

			start := e.startTime
			if temporality == TemporalityDelta {
				start = e.lastCollectTime
			}

			switch agg := e.aggregator.(type) {
			case *sumAggregator:
				v := agg.collect(temporality)
				sumPoints = append(sumPoints, DataPoint{Attributes: e.set, StartTime: start, Time: now, Value: v})
			case *precomputedSumAggregator:
				if v, ok := agg.collect(temporality); ok {
					sumPoints = append(sumPoints, DataPoint{Attributes: e.set, StartTime: start, Time: now, Value: v})
				}
			case *lastValueAggregator:
				if v, ok := agg.collect(temporality); ok {
					gaugePoints = append(gaugePoints, DataPoint{Attributes: e.set, StartTime: start, Time: now, Value: v})
				}
			case *explicitHistogramAggregator:
				if snap, ok := agg.collect(temporality); ok {
					histPoints = append(histPoints, HistogramDataPoint{
						Attributes:   e.set,
						StartTime:    start,
						Time:         now,
						Count:        snap.count,
						Bounds:       snap.bounds,
						BucketCounts: snap.counts,
						Sum:          snap.sum,
						Min:          snap.min,
						Max:          snap.max,
						HasExtrema:   snap.hasExtrema,
					})
				}
			case *exponentialHistogramAggregator:
				if snap, ok := agg.collect(temporality); ok {
					expPoints = append(expPoints, ExponentialHistogramDataPoint{
						Attributes:     e.set,
						StartTime:      start,
						Time:           now,
						Count:          snap.count,
						Sum:            snap.sum,
						Min:            snap.min,
						Max:            snap.max,
						HasExtrema:     snap.hasExtrema,
						Scale:          snap.scale,
						ZeroCount:      snap.zeroCount,
						PositiveBucket: snap.positive,
						NegativeBucket: snap.negative,
					})
				}
			}
			e.lastCollectTime = now
		}
		if len(kept) == 0 {
			delete(s.series, hash)
		} else {
			s.series[hash] = kept
		}
	}

	var data Aggregation
	switch s.stream.Aggregation {
	case AggregationSum:
		data = Sum{DataPoints: sumPoints, Temporality: temporality, IsMonotonic: id.kind.monotonic()}
	case AggregationLastValue:
		data = Gauge{DataPoints: gaugePoints}
	case AggregationExplicitHistogram:
		data = Histogram{DataPoints: histPoints, Temporality: temporality}
	case AggregationExponentialHistogram:
		data = ExponentialHistogram{DataPoints: expPoints, Temporality: temporality}
	default:
		return Metrics{}, false
	}

	return Metrics{Name: s.stream.Name, Description: s.stream.Description, Unit: id.unit, Data: data}, true
}
