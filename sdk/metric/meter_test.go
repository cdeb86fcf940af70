package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

func TestMeterCounterCumulativeCollection(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")

	c, err := m.Counter("requests")
	require.NoError(t, err)

	ctx := context.Background()
	c.Add(ctx, 5, attribute.String("route", "/checkout"))
	c.Add(ctx, 3, attribute.String("route", "/checkout"))

	rm := p.Collect(ctx, defaultCallbackDeadline)
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
	require.True(t, ok)
	assert.True(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, 8.0, sum.DataPoints[0].Value)
}

func TestMeterCounterRejectsNegativeAdd(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	c, err := m.Counter("requests")
	require.NoError(t, err)

	ctx := context.Background()
	c.Add(ctx, 5)
	c.Add(ctx, -1)

	rm := p.Collect(ctx, defaultCallbackDeadline)
	sum := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
	assert.Equal(t, 5.0, sum.DataPoints[0].Value)
}

func TestMeterCountersWithDifferentAttributesProduceSeparateSeries(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	c, _ := m.Counter("requests")

	ctx := context.Background()
	c.Add(ctx, 1, attribute.String("route", "a"))
	c.Add(ctx, 2, attribute.String("route", "b"))

	rm := p.Collect(ctx, defaultCallbackDeadline)
	sum := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
	assert.Len(t, sum.DataPoints, 2)
}

func TestMeterHistogramRecordsIntoExplicitBuckets(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	h, err := m.Histogram("latency", WithUnit("ms"))
	require.NoError(t, err)

	ctx := context.Background()
	for _, v := range []float64{23, 7, 101, 105} {
		h.Record(ctx, v)
	}

	rm := p.Collect(ctx, defaultCallbackDeadline)
	hist := rm.ScopeMetrics[0].Metrics[0].Data.(Histogram)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(4), hist.DataPoints[0].Count)
	assert.Equal(t, 236.0, hist.DataPoints[0].Sum)
}

func TestMeterGaugeReportsLastValue(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	g, err := m.Gauge("temperature")
	require.NoError(t, err)

	ctx := context.Background()
	g.Record(ctx, 10)
	g.Record(ctx, 20)

	rm := p.Collect(ctx, defaultCallbackDeadline)
	gauge := rm.ScopeMetrics[0].Metrics[0].Data.(Gauge)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 20.0, gauge.DataPoints[0].Value)
}

func TestMeterObservableCounterReportsCallbackValue(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	obs, err := m.ObservableCounter("bytes.read")
	require.NoError(t, err)

	_, err = m.RegisterCallback(func(ctx context.Context, o Observer) error {
		o.ObserveFloat64(obs, 42)
		return nil
	}, obs)
	require.NoError(t, err)

	rm := p.Collect(context.Background(), defaultCallbackDeadline)
	sum := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, 42.0, sum.DataPoints[0].Value)
}

func TestMeterInvalidInstrumentNameReturnsError(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	_, err := m.Counter("1-bad-name")
	assert.Error(t, err)
}

func TestMeterIsCachedPerInstrumentationScope(t *testing.T) {
	p := NewMeterProvider()
	a := p.Meter("svc-a")
	b := p.Meter("svc-a")
	c := p.Meter("svc-b")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestInstrumentStateEvictsStaleSeriesAfterThreshold(t *testing.T) {
	p := NewMeterProvider()
	m := p.Meter("test")
	c, _ := m.Counter("requests")

	ctx := context.Background()
	c.Add(ctx, 1, attribute.String("route", "transient"))

	rm := p.Collect(ctx, defaultCallbackDeadline)
	require.Len(t, rm.ScopeMetrics[0].Metrics[0].Data.(Sum).DataPoints, 1)

	for i := 0; i < staleEvictionThreshold; i++ {
		rm = p.Collect(ctx, defaultCallbackDeadline)
	}

	if len(rm.ScopeMetrics) > 0 {
		sum := rm.ScopeMetrics[0].Metrics[0].Data.(Sum)
		assert.Empty(t, sum.DataPoints)
	}
}
