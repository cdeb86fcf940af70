package propagation

import (
	"context"
	"strings"

	"github.com/signalcore/telemetry-go/telemetry"
)

const (
	b3TraceIDHeader      = "X-B3-TraceId"
	b3SpanIDHeader       = "X-B3-SpanId"
	b3ParentSpanIDHeader = "X-B3-ParentSpanId"
	b3SampledHeader      = "X-B3-Sampled"
	b3FlagsHeader        = "X-B3-Flags"
	b3SingleHeader       = "b3"
)

// B3Encoding selects which wire form B3.Inject writes.
type B3Encoding int

const (
	// B3MultiHeader writes the X-B3-* header family.
	B3MultiHeader B3Encoding = iota
	// B3SingleHeader writes the single "b3" header.
	B3SingleHeader
)

// B3 implements the Zipkin B3 propagation format in both its multi-header
// and single-header encodings. Extract accepts either form
// regardless of which one Inject is configured to write.
type B3 struct {
	Encoding B3Encoding
}

// Fields implements TextMapPropagator.
func (b B3) Fields() []string {
	return []string{b3TraceIDHeader, b3SpanIDHeader, b3ParentSpanIDHeader, b3SampledHeader, b3FlagsHeader, b3SingleHeader}
}

// Inject writes sc in the configured encoding. A no-op when the active span
// context is invalid.
func (b B3) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := telemetry.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	sampled := "0"
	if sc.IsSampled() {
		sampled = "1"
	}
	if b.Encoding == B3SingleHeader {
		carrier.Set(b3SingleHeader, sc.TraceID().String()+"-"+sc.SpanID().String()+"-"+sampled)
		return
	}
	carrier.Set(b3TraceIDHeader, sc.TraceID().String())
	carrier.Set(b3SpanIDHeader, sc.SpanID().String())
	carrier.Set(b3SampledHeader, sampled)
}

// Extract accepts either the single "b3" header or the X-B3-* family,
// preferring the single header when both are present. Any parse error
// leaves ctx unchanged.
func (b B3) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	if single := carrier.Get(b3SingleHeader); single != "" {
		if sc, ok := parseB3Single(single); ok {
			return telemetry.ContextWithSpanContext(ctx, sc)
		}
		return ctx
	}
	sc, ok := parseB3Multi(carrier)
	if !ok {
		return ctx
	}
	return telemetry.ContextWithSpanContext(ctx, sc)
}

func parseB3TraceID(s string) (telemetry.TraceID, bool) {
	if len(s) != 16 && len(s) != 32 {
		return telemetry.TraceID{}, false
	}
	t, err := telemetry.TraceIDFromHex(s)
	if err != nil || !t.IsValid() {
		return telemetry.TraceID{}, false
	}
	return t, true
}

func parseB3Single(header string) (telemetry.SpanContext, bool) {
	parts := strings.Split(header, "-")
	if len(parts) < 2 {
		return telemetry.SpanContext{}, false
	}
	traceID, ok := parseB3TraceID(parts[0])
	if !ok {
		return telemetry.SpanContext{}, false
	}
	spanID, err := telemetry.SpanIDFromHex(parts[1])
	if err != nil || !spanID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	var flags telemetry.TraceFlags
	if len(parts) >= 3 {
		switch parts[2] {
		case "1", "d":
			flags = flags.WithSampled(true)
		case "0":
			flags = flags.WithSampled(false)
		}
	}
	return telemetry.NewSpanContext(traceID, spanID, flags, telemetry.TraceState{}, true), true
}

func parseB3Multi(carrier TextMapCarrier) (telemetry.SpanContext, bool) {
	traceID, ok := parseB3TraceID(carrier.Get(b3TraceIDHeader))
	if !ok {
		return telemetry.SpanContext{}, false
	}
	spanID, err := telemetry.SpanIDFromHex(carrier.Get(b3SpanIDHeader))
	if err != nil || !spanID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	var flags telemetry.TraceFlags
	switch carrier.Get(b3SampledHeader) {
	case "1":
		flags = flags.WithSampled(true)
	}
	if carrier.Get(b3FlagsHeader) == "1" {
		flags = flags.WithSampled(true)
	}
	return telemetry.NewSpanContext(traceID, spanID, flags, telemetry.TraceState{}, true), true
}
