package trace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpan(t *testing.T) ReadOnlySpan {
	t.Helper()
	p := newTestProvider()
	tr := p.Tracer("test")
	_, s := tr.Start(context.Background(), "op")
	s.End()
	return s.(*recordingSpan)
}

func TestBatchProcessorExportsOnBatchFull(t *testing.T) {
	exp := newFakeExporter()
	proc := NewBatchSpanProcessor(exp, WithMaxExportBatchSize(2), WithScheduledDelay(time.Hour), WithMaxQueueSize(10))
	defer proc.Shutdown(context.Background())

	proc.OnEnd(newTestSpan(t))
	proc.OnEnd(newTestSpan(t))

	require.Eventually(t, func() bool { return exp.count() == 2 }, time.Second, time.Millisecond)
}

func TestBatchProcessorExportsOnScheduledDelay(t *testing.T) {
	exp := newFakeExporter()
	proc := NewBatchSpanProcessor(exp, WithMaxExportBatchSize(100), WithScheduledDelay(10*time.Millisecond), WithMaxQueueSize(10))
	defer proc.Shutdown(context.Background())

	proc.OnEnd(newTestSpan(t))

	require.Eventually(t, func() bool { return exp.count() == 1 }, time.Second, time.Millisecond)
}

func TestBatchProcessorForceFlushDrainsQueue(t *testing.T) {
	exp := newFakeExporter()
	proc := NewBatchSpanProcessor(exp, WithMaxExportBatchSize(100), WithScheduledDelay(time.Hour), WithMaxQueueSize(10))
	defer proc.Shutdown(context.Background())

	proc.OnEnd(newTestSpan(t))
	proc.OnEnd(newTestSpan(t))
	proc.OnEnd(newTestSpan(t))

	require.NoError(t, proc.ForceFlush(context.Background()))
	assert.Equal(t, 3, exp.count())
}

func TestBatchProcessorNeverBlocksAndDropsOnFullQueue(t *testing.T) {
	exp := newFakeExporter()
	exp.delay = time.Hour
	const queueSize = 8
	const producers = 40
	proc := NewBatchSpanProcessor(exp,
		WithMaxExportBatchSize(1),
		WithScheduledDelay(time.Hour),
		WithMaxQueueSize(queueSize),
		WithMaxExportTimeout(20*time.Millisecond),
		WithRetryRateLimit(0))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		proc.Shutdown(ctx)
	}()

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			proc.OnEnd(newTestSpan(t))
		}()
	}
	close(start)
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("OnEnd calls blocked under a full queue")
	}
}

func TestBatchProcessorShutdownIsIdempotent(t *testing.T) {
	exp := newFakeExporter()
	proc := NewBatchSpanProcessor(exp)

	require.NoError(t, proc.Shutdown(context.Background()))
	require.NoError(t, proc.Shutdown(context.Background()))
}

func TestSimpleProcessorExportsSynchronously(t *testing.T) {
	exp := newFakeExporter()
	proc := NewSimpleSpanProcessor(exp)

	proc.OnEnd(newTestSpan(t))

	assert.Equal(t, 1, exp.count())
}

func TestSimpleProcessorLogsButDoesNotPanicOnExportError(t *testing.T) {
	exp := newFakeExporter()
	exp.failNext = true
	proc := NewSimpleSpanProcessor(exp)

	assert.NotPanics(t, func() { proc.OnEnd(newTestSpan(t)) })
	assert.Equal(t, 0, exp.count())
}
