package propagation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalcore/telemetry-go/telemetry"
	"github.com/signalcore/telemetry-go/telemetry/baggage"
)

func TestCompositeInjectExtract(t *testing.T) {
	c := NewComposite(TraceContext{}, Baggage{})

	traceID := telemetry.NewTraceID()
	spanID := telemetry.NewSpanID()
	sc := telemetry.NewSpanContext(traceID, spanID, telemetry.FlagsSampled, telemetry.TraceState{}, false)
	m, _ := baggage.NewMember("k", "v")

	ctx := telemetry.ContextWithSpanContext(context.Background(), sc)
	ctx = telemetry.ContextWithBaggage(ctx, baggage.New(m))

	carrier := MapCarrier{}
	c.Inject(ctx, carrier)
	assert.NotEmpty(t, carrier.Get("traceparent"))
	assert.NotEmpty(t, carrier.Get("baggage"))

	out := c.Extract(context.Background(), carrier)
	assert.True(t, telemetry.SpanFromContext(out).SpanContext().IsValid())
	v, ok := telemetry.BaggageFromContext(out).Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCompositeFieldsDeduplicated(t *testing.T) {
	c := NewComposite(TraceContext{}, TraceContext{}, Baggage{})
	fields := c.Fields()
	seen := map[string]int{}
	for _, f := range fields {
		seen[f]++
	}
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"tracecontext", "baggage", "b3", "b3multi", "jaeger", "xray"} {
		p, ok := ByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, p)
	}
	_, ok := ByName("unknown")
	assert.False(t, ok)
}
