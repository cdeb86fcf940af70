package propagation

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/signalcore/telemetry-go/telemetry"
)

const (
	jaegerHeader       = "uber-trace-id"
	jaegerBaggagePrefix = "uberctx-"
)

// Jaeger implements the uber-trace-id propagation format. The deprecated
// parent-span field is accepted on Extract but never echoed
// on Inject (Open Question 2, resolved in DESIGN.md).
type Jaeger struct{}

// Fields implements TextMapPropagator.
func (Jaeger) Fields() []string { return []string{jaegerHeader} }

// Inject writes the active span context as an uber-trace-id header, plus one
// uberctx-<key> header per TraceState entry. A no-op when the active span
// context is invalid.
func (Jaeger) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := telemetry.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	flags := 0
	if sc.IsSampled() {
		flags |= 0x1
	}
	carrier.Set(jaegerHeader, sc.TraceID().String()+":"+sc.SpanID().String()+":0:"+strconv.Itoa(flags))
	for _, entry := range sc.TraceState().Entries() {
		carrier.Set(jaegerBaggagePrefix+entry.Key, entry.Value)
	}
}

// Extract parses an uber-trace-id header (URL-decoding it first, since the
// header may arrive with ':' escaped as '%3A') plus any uberctx-<key>
// headers, folding baggage into the returned context's TraceState so it
// lands alongside trace context. Any parse error leaves ctx unchanged.
func (Jaeger) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	raw := carrier.Get(jaegerHeader)
	if raw == "" {
		return ctx
	}
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	sc, ok := parseJaeger(raw)
	if !ok {
		return ctx
	}
	ts := sc.TraceState()
	for _, key := range carrier.Keys() {
		if !strings.HasPrefix(key, jaegerBaggagePrefix) {
			continue
		}
		name := strings.TrimPrefix(key, jaegerBaggagePrefix)
		if updated, err := ts.Insert(name, carrier.Get(key)); err == nil {
			ts = updated
		}
	}
	sc = sc.WithTraceState(ts)
	return telemetry.ContextWithSpanContext(ctx, sc)
}

// parseJaeger parses "trace:span:parent:flags" with trace
// accepted as 1-32 hex (zero-padded), span exactly 16 hex, the deprecated
// parent field ignored, flags decimal 0-3 (bit 0 sampled, bit 1 debug also
// implies sampled).
func parseJaeger(header string) (telemetry.SpanContext, bool) {
	parts := strings.Split(header, ":")
	if len(parts) != 4 {
		return telemetry.SpanContext{}, false
	}
	traceStr, spanStr, _, flagsStr := parts[0], parts[1], parts[2], parts[3]
	if len(traceStr) == 0 || len(traceStr) > 32 {
		return telemetry.SpanContext{}, false
	}
	traceID, err := telemetry.TraceIDFromHex(traceStr)
	if err != nil || !traceID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	if len(spanStr) != 16 {
		return telemetry.SpanContext{}, false
	}
	spanID, err := telemetry.SpanIDFromHex(spanStr)
	if err != nil || !spanID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	flagsVal, err := strconv.ParseUint(flagsStr, 10, 8)
	if err != nil || flagsVal > 3 {
		return telemetry.SpanContext{}, false
	}
	var flags telemetry.TraceFlags
	if flagsVal&0x1 != 0 || flagsVal&0x2 != 0 {
		flags = flags.WithSampled(true)
	}
	return telemetry.NewSpanContext(traceID, spanID, flags, telemetry.TraceState{}, true), true
}
