package trace

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/signalcore/telemetry-go/internal/log"
	"github.com/signalcore/telemetry-go/internal/telemetrystats"
)

const (
	defaultMaxQueueSize         = 2048
	defaultScheduledDelay       = time.Second
	defaultMaxExportBatchSize   = 512
	defaultMaxExportTimeout     = 30 * time.Second
)

// BatchSpanProcessorOption configures NewBatchSpanProcessor.
type BatchSpanProcessorOption func(*batchConfig)

type batchConfig struct {
	maxQueueSize       int
	scheduledDelay     time.Duration
	maxExportBatchSize int
	maxExportTimeout   time.Duration
	retryPerSecond     float64
}

// WithMaxQueueSize overrides the bounded queue capacity (default 2048).
func WithMaxQueueSize(n int) BatchSpanProcessorOption {
	return func(c *batchConfig) { c.maxQueueSize = n }
}

// WithScheduledDelay overrides the periodic flush interval (default 1s).
func WithScheduledDelay(d time.Duration) BatchSpanProcessorOption {
	return func(c *batchConfig) { c.scheduledDelay = d }
}

// WithMaxExportBatchSize overrides the batch-full threshold (default 512).
func WithMaxExportBatchSize(n int) BatchSpanProcessorOption {
	return func(c *batchConfig) { c.maxExportBatchSize = n }
}

// WithMaxExportTimeout overrides the per-export deadline (default 30s).
func WithMaxExportTimeout(d time.Duration) BatchSpanProcessorOption {
	return func(c *batchConfig) { c.maxExportTimeout = d }
}

// WithRetryRateLimit caps how many timed-out batches may be retried once,
// per second, so a stuck exporter's timeouts cannot spin the worker in a
// tight retry loop.
func WithRetryRateLimit(perSecond float64) BatchSpanProcessorOption {
	return func(c *batchConfig) { c.retryPerSecond = perSecond }
}

type flushRequest struct {
	reply chan error
}

// BatchSpanProcessor coalesces OnEnd calls into batches bounded by size or a
// scheduled delay, exported on a single worker goroutine so producers never
// block: a full queue drops the span and increments a counter instead.
type BatchSpanProcessor struct {
	exporter Exporter
	cfg      batchConfig

	queue    chan ReadOnlySpan
	flushCh  chan flushRequest
	stopCh   chan flushRequest
	stopped  int32
	done     chan struct{}

	retryLimiter *rate.Limiter
}

// NewBatchSpanProcessor starts the worker goroutine and returns the
// processor. Callers must call Shutdown to release the goroutine.
func NewBatchSpanProcessor(exporter Exporter, opts ...BatchSpanProcessorOption) *BatchSpanProcessor {
	cfg := batchConfig{
		maxQueueSize:       defaultMaxQueueSize,
		scheduledDelay:     defaultScheduledDelay,
		maxExportBatchSize: defaultMaxExportBatchSize,
		maxExportTimeout:   defaultMaxExportTimeout,
		retryPerSecond:     1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &BatchSpanProcessor{
		exporter:     exporter,
		cfg:          cfg,
		queue:        make(chan ReadOnlySpan, cfg.maxQueueSize),
		flushCh:      make(chan flushRequest),
		stopCh:       make(chan flushRequest),
		done:         make(chan struct{}),
		retryLimiter: rate.NewLimiter(rate.Limit(cfg.retryPerSecond), 1),
	}
	go p.run()
	return p
}

// OnStart is a no-op; the batch processor only acts on span completion.
func (p *BatchSpanProcessor) OnStart(context.Context, *recordingSpan) {}

// OnEnd enqueues s for export. A full queue (or a processor already
// shutting down) drops the span and increments MetricBatchQueueDropped;
// this call never blocks.
func (p *BatchSpanProcessor) OnEnd(s ReadOnlySpan) {
	if atomic.LoadInt32(&p.stopped) != 0 {
		telemetrystats.Incr(telemetrystats.MetricBatchQueueDropped)
		return
	}
	select {
	case p.queue <- s:
	default:
		telemetrystats.Incr(telemetrystats.MetricBatchQueueDropped)
	}
}

// ForceFlush drains and exports everything currently queued, blocking until
// the export (or its timeout) completes.
func (p *BatchSpanProcessor) ForceFlush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case p.flushCh <- flushRequest{reply: reply}:
	case <-p.done:
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

// Shutdown flushes remaining spans, stops the worker, and shuts down the
// exporter. Subsequent OnEnd calls are no-ops.
func (p *BatchSpanProcessor) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		<-p.done
		return nil
	}
	reply := make(chan error, 1)
	select {
	case p.stopCh <- flushRequest{reply: reply}:
	case <-p.done:
		return nil
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *BatchSpanProcessor) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.scheduledDelay)
	defer ticker.Stop()

	var batch []ReadOnlySpan

	for {
		select {
		case s := <-p.queue:
			batch = append(batch, s)
			if len(batch) >= p.cfg.maxExportBatchSize {
				p.exportBatch(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				p.exportBatch(batch)
				batch = nil
			}

		case req := <-p.flushCh:
			batch = p.drainInto(batch)
			req.reply <- p.exportBatch(batch)
			batch = nil

		case req := <-p.stopCh:
			batch = p.drainInto(batch)
			err := p.exportBatch(batch)
			if shutdownErr := p.exporter.Shutdown(context.Background()); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
			req.reply <- err
			return
		}
	}
}

// drainInto appends every span currently sitting in the queue (without
// blocking) onto batch, used by Flush/Shutdown to pick up everything
// enqueued before the request was made.
func (p *BatchSpanProcessor) drainInto(batch []ReadOnlySpan) []ReadOnlySpan {
	for {
		select {
		case s := <-p.queue:
			batch = append(batch, s)
		default:
			return batch
		}
	}
}

// exportBatch exports batch, racing it against maxExportTimeout. A timeout
// abandons the in-flight call and, if the retry limiter still has budget,
// attempts exactly one more bounded export before giving up — this keeps a
// consistently stuck exporter from spinning the worker in a retry loop.
func (p *BatchSpanProcessor) exportBatch(batch []ReadOnlySpan) error {
	if len(batch) == 0 {
		return nil
	}
	err := p.exportOnce(batch)
	if err == context.DeadlineExceeded && p.retryLimiter.Allow() {
		err = p.exportOnce(batch)
	}
	if err != nil {
		if err == context.DeadlineExceeded {
			telemetrystats.Incr(telemetrystats.MetricExportTimeout)
			log.Error("batch span processor: export timed out after %s", p.cfg.maxExportTimeout)
		} else {
			telemetrystats.Incr(telemetrystats.MetricExportFailure)
			log.Error("batch span processor: export failed: %s", err)
		}
		return err
	}
	telemetrystats.Incr(telemetrystats.MetricExportSuccess)
	return nil
}

func (p *BatchSpanProcessor) exportOnce(batch []ReadOnlySpan) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.maxExportTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- p.exporter.ExportSpans(ctx, batch) }()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
