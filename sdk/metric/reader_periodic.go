package metric

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/signalcore/telemetry-go/internal/env"
	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/internal/telemetrystats"
)

const (
	defaultExportInterval    = 60 * time.Second
	defaultExportTimeout     = 30 * time.Second
	defaultCallbackDeadline  = 5 * time.Second
)

// PeriodicReaderOption configures NewPeriodicReader.
type PeriodicReaderOption func(*periodicConfig)

type periodicConfig struct {
	interval         time.Duration
	timeout          time.Duration
	callbackDeadline time.Duration
}

// WithExportInterval overrides the collect-and-export period (default 60s,
// or OTEL_METRIC_EXPORT_INTERVAL if set).
func WithExportInterval(d time.Duration) PeriodicReaderOption {
	return func(c *periodicConfig) { c.interval = d }
}

// WithExportTimeout overrides the per-export deadline (default 30s, or
// OTEL_METRIC_EXPORT_TIMEOUT if set).
func WithExportTimeout(d time.Duration) PeriodicReaderOption {
	return func(c *periodicConfig) { c.timeout = d }
}

// WithCallbackDeadline overrides the per-callback deadline applied during
// each collection (default 5s).
func WithCallbackDeadline(d time.Duration) PeriodicReaderOption {
	return func(c *periodicConfig) { c.callbackDeadline = d }
}

type flushRequest struct {
	reply chan error
}

// PeriodicReader collects on a fixed timer and pushes the result to an
// exporter, coalescing export work onto a single worker goroutine so
// collection never runs concurrently with itself. Grounded on the tracing
// SDK's BatchSpanProcessor worker loop (ticker + flush/stop request
// channels), generalized from "batch of spans" to "one collection
// snapshot" per tick.
type PeriodicReader struct {
	exporter PushExporter
	cfg      periodicConfig
	provider *MeterProvider

	flushCh chan flushRequest
	stopCh  chan flushRequest
	stopped int32
	done    chan struct{}
}

// NewPeriodicReader constructs a reader that exports to exporter every
// interval. It does not start collecting until register(p) runs, which
// MeterProvider does for every Reader passed to WithReader.
func NewPeriodicReader(exporter PushExporter, opts ...PeriodicReaderOption) *PeriodicReader {
	cfg := periodicConfig{
		interval:         env.Duration("OTEL_METRIC_EXPORT_INTERVAL", defaultExportInterval),
		timeout:          env.Duration("OTEL_METRIC_EXPORT_TIMEOUT", defaultExportTimeout),
		callbackDeadline: defaultCallbackDeadline,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &PeriodicReader{
		exporter: exporter,
		cfg:      cfg,
		flushCh:  make(chan flushRequest),
		stopCh:   make(chan flushRequest),
		done:     make(chan struct{}),
	}
}

func (r *PeriodicReader) register(p *MeterProvider) {
	r.provider = p
	go r.run()
}

func (r *PeriodicReader) run() {
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.collectAndExport()

		case req := <-r.flushCh:
			req.reply <- r.collectAndExport()

		case req := <-r.stopCh:
			err := r.collectAndExport()
			if shutdownErr := r.exporter.Shutdown(context.Background()); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
			req.reply <- err
			return
		}
	}
}

func (r *PeriodicReader) collectAndExport() error {
	rm := r.provider.Collect(context.Background(), r.cfg.callbackDeadline)
	if len(rm.ScopeMetrics) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- r.exporter.Export(ctx, rm) }()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		if err == context.DeadlineExceeded {
			telemetrystats.Incr(telemetrystats.MetricExportTimeout)
			log.Error("periodic reader: export timed out after %s", r.cfg.timeout)
		} else {
			telemetrystats.Incr(telemetrystats.MetricExportFailure)
			log.Error("periodic reader: export failed: %s", err)
		}
		return err
	}
	telemetrystats.Incr(telemetrystats.MetricExportSuccess)
	return nil
}

// ForceFlush collects and exports immediately, bypassing the ticker.
func (r *PeriodicReader) ForceFlush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case r.flushCh <- flushRequest{reply: reply}:
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops the timer, flushes once more, and shuts down the
// exporter. Safe to call more than once.
func (r *PeriodicReader) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&r.stopped, 0, 1) {
		<-r.done
		return nil
	}
	reply := make(chan error, 1)
	select {
	case r.stopCh <- flushRequest{reply: reply}:
	case <-r.done:
		return nil
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
