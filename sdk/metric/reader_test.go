package metric

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	mu       sync.Mutex
	exported []ResourceMetrics
	shutdown bool
}

func (f *fakeExporter) Export(ctx context.Context, rm ResourceMetrics) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported = append(f.exported, rm)
	return nil
}

func (f *fakeExporter) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdown = true
	return nil
}

func (f *fakeExporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exported)
}

func TestPeriodicReaderForceFlushExportsImmediately(t *testing.T) {
	exp := &fakeExporter{}
	reader := NewPeriodicReader(exp, WithExportInterval(time.Hour))
	p := NewMeterProvider(WithReader(reader))
	m := p.Meter("test")
	c, _ := m.Counter("requests")
	c.Add(context.Background(), 1)

	require.NoError(t, reader.ForceFlush(context.Background()))
	assert.Equal(t, 1, exp.count())

	require.NoError(t, reader.Shutdown(context.Background()))
	assert.True(t, exp.shutdown)
}

func TestPeriodicReaderShutdownIsIdempotent(t *testing.T) {
	exp := &fakeExporter{}
	reader := NewPeriodicReader(exp, WithExportInterval(time.Hour))
	_ = NewMeterProvider(WithReader(reader))

	require.NoError(t, reader.Shutdown(context.Background()))
	require.NoError(t, reader.Shutdown(context.Background()))
}

func TestPullReaderCollectReturnsCurrentSnapshot(t *testing.T) {
	reader := NewPullReader()
	p := NewMeterProvider(WithReader(reader))
	m := p.Meter("test")
	c, _ := m.Counter("requests")
	c.Add(context.Background(), 4)

	rm := reader.Collect(context.Background())
	require.Len(t, rm.ScopeMetrics, 1)
	sum := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
	assert.Equal(t, 4.0, sum.DataPoints[0].Value)
}
