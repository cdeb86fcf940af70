// Package telemetrystats emits the SDK's own self-telemetry counters:
// attribute/event/link drops, batch-queue drops, export outcomes, and
// metric stale-series evictions. It wraps
// github.com/DataDog/datadog-go/v5/statsd, generalized from a single
// tracer's fixed metric names to a small named-counter API any SDK
// component can call.
package telemetrystats

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/signalcore/telemetry-go/internal/log"
)

// Client is the subset of statsd.ClientInterface this package depends on,
// declared locally so callers can pass a test double without importing the
// full statsd package.
type Client interface {
	Incr(name string, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Flush() error
	Close() error
}

// Self-telemetry metric names.
const (
	MetricSpanAttributesDropped  = "telemetry.span.attributes_dropped"
	MetricSpanEventsDropped      = "telemetry.span.events_dropped"
	MetricSpanLinksDropped       = "telemetry.span.links_dropped"
	MetricTraceStateDropped      = "telemetry.tracestate.entries_dropped"
	MetricBatchQueueDropped      = "telemetry.batch.queue_dropped"
	MetricExportSuccess          = "telemetry.export.success"
	MetricExportFailure          = "telemetry.export.failure"
	MetricExportTimeout          = "telemetry.export.timeout"
	MetricMetricSeriesEvicted    = "telemetry.metric.series_evicted"
)

var (
	mu     sync.RWMutex
	client Client = &statsd.NoOpClient{}
)

// UseClient installs client as the target for all subsequent counter calls.
// A nil client restores the no-op default.
func UseClient(c Client) {
	mu.Lock()
	defer mu.Unlock()
	if c == nil {
		c = &statsd.NoOpClient{}
	}
	client = c
}

// Dial connects a real UDP statsd client at addr and installs it, falling
// back to the no-op client (and a warn log) on failure, mirroring
// dd-trace-go's statsd.New(addr) handling in newUnstartedTracer.
func Dial(addr string, opts ...statsd.Option) error {
	c, err := statsd.New(addr, opts...)
	if err != nil {
		log.Warn("telemetrystats: statsd dial failed, self-telemetry disabled: %s", err)
		UseClient(nil)
		return err
	}
	UseClient(c)
	return nil
}

func current() Client {
	mu.RLock()
	defer mu.RUnlock()
	return client
}

// Incr increments a counter by one.
func Incr(name string, tags ...string) {
	if err := current().Incr(name, tags, 1); err != nil {
		log.Debug("telemetrystats: incr %s failed: %s", name, err)
	}
}

// Count adds value to a counter.
func Count(name string, value int64, tags ...string) {
	if err := current().Count(name, value, tags, 1); err != nil {
		log.Debug("telemetrystats: count %s failed: %s", name, err)
	}
}

// Gauge reports a point-in-time value (e.g. active series count).
func Gauge(name string, value float64, tags ...string) {
	if err := current().Gauge(name, value, tags, 1); err != nil {
		log.Debug("telemetrystats: gauge %s failed: %s", name, err)
	}
}

// Timing reports a duration (e.g. export latency).
func Timing(name string, value time.Duration, tags ...string) {
	if err := current().Timing(name, value, tags, 1); err != nil {
		log.Debug("telemetrystats: timing %s failed: %s", name, err)
	}
}

// Flush forces any buffered metrics to be sent.
func Flush() error { return current().Flush() }

// Close releases the installed client's resources.
func Close() error { return current().Close() }
