package metric

import (
	"context"

	"github.com/signalcore/telemetry-go/internal/global"
	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// handle is the piece every synchronous instrument shares: its identity and
// the meter whose series map its measurements are routed through.
type handle struct {
	id    instrumentID
	meter *Meter
}

func (h handle) record(ctx context.Context, value float64, attrs []attribute.KeyValue) {
	h.meter.measure(h.id, value, attrs)
}

// Counter records non-negative, monotonically accumulating measurements.
type Counter struct{ h handle }

// Add records value, which must be non-negative; negative values are logged
// and dropped rather than corrupting the running total.
func (c Counter) Add(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	if value < 0 {
		log.Warn("metric: Counter %q dropped negative Add value %v", c.h.id.name, value)
		return
	}
	c.h.record(ctx, value, attrs)
}

// UpDownCounter records measurements that may increase or decrease.
type UpDownCounter struct{ h handle }

func (c UpDownCounter) Add(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	c.h.record(ctx, value, attrs)
}

// Histogram records a distribution of measurements, bucketed per the
// aggregation selected for its instrument identity.
type Histogram struct{ h handle }

func (c Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	c.h.record(ctx, value, attrs)
}

// Gauge records the current value of some quantity that does not
// accumulate; unlike Counter/UpDownCounter, only the most
// recent value per series is kept.
type Gauge struct{ h handle }

func (c Gauge) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	c.h.record(ctx, value, attrs)
}

// Observable is an opaque handle identifying one asynchronous instrument to
// an Observer inside a registered Callback.
type Observable struct {
	id instrumentID
}

// Observer is passed to a Callback so it can report a measurement for any
// Observable it was registered against.
type Observer interface {
	ObserveFloat64(obs Observable, value float64, attrs ...attribute.KeyValue)
}

// Callback reports the current value of one or more Observables each time
// it runs. It must return promptly: the collection pipeline that invokes it
// enforces a deadline and moves on if it is exceeded.
type Callback func(ctx context.Context, obs Observer) error

// Registration is returned by Meter.RegisterCallback; Unregister stops the
// callback from being invoked by future collections.
type Registration interface {
	Unregister() error
}

// observerResult implements Observer for one callback invocation, routing
// each ObserveFloat64 call to the owning Meter's series map and rejecting
// observations for instruments the callback was not registered against.
type observerResult struct {
	meter   *Meter
	allowed map[instrumentID]struct{}
}

func (o *observerResult) ObserveFloat64(obs Observable, value float64, attrs ...attribute.KeyValue) {
	if _, ok := o.allowed[obs.id]; !ok {
		global.Handle(errUnregisteredObservable(obs.id.name))
		return
	}
	o.meter.measure(obs.id, value, attrs)
}

type errUnregisteredObservable string

func (e errUnregisteredObservable) Error() string {
	return "metric: callback observed " + string(e) + " without registering it"
}
