package propagation

import (
	"context"
	"strconv"
	"strings"

	"github.com/signalcore/telemetry-go/telemetry"
)

const (
	traceparentHeader = "traceparent"
	tracestateHeader  = "tracestate"
)

// TraceContext implements the W3C traceparent/tracestate propagation format.
// The zero value is ready to use.
type TraceContext struct{}

// Fields implements TextMapPropagator.
func (TraceContext) Fields() []string { return []string{traceparentHeader, tracestateHeader} }

// Inject writes the active span context as a traceparent header, plus a
// tracestate header when non-empty. Inject is a no-op when the active span
// context is invalid.
func (TraceContext) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := telemetry.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	carrier.Set(traceparentHeader, formatTraceparent(sc))
	if ts := sc.TraceState(); !ts.IsEmpty() {
		carrier.Set(tracestateHeader, ts.Header())
	}
}

// Extract parses a traceparent/tracestate header pair from carrier, returning
// a context carrying the resulting remote SpanContext. Any parse error
// leaves ctx unchanged.
func (TraceContext) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	sc, ok := parseTraceparent(carrier.Get(traceparentHeader))
	if !ok {
		return ctx
	}
	if raw := carrier.Get(tracestateHeader); raw != "" {
		sc = sc.WithTraceState(telemetry.ParseTraceState(raw))
	}
	return telemetry.ContextWithSpanContext(ctx, sc.WithRemote(true))
}

func formatTraceparent(sc telemetry.SpanContext) string {
	var b strings.Builder
	b.WriteString("00-")
	b.WriteString(sc.TraceID().String())
	b.WriteByte('-')
	b.WriteString(sc.SpanID().String())
	b.WriteByte('-')
	b.WriteString(hex2(byte(sc.TraceFlags())))
	return b.String()
}

// parseTraceparent parses the traceparent grammar: version
// 0x00..0xFE; for version 00 exactly four dash-separated parts; trace id and
// span id must be lowercase, non-zero hex; flags parsed from the last two
// hex chars, masked to only the Sampled bit on read (unknown bits are
// dropped; only Sampled has defined meaning). Upper-case hex anywhere is
// rejected outright.
func parseTraceparent(header string) (telemetry.SpanContext, bool) {
	if header == "" {
		return telemetry.SpanContext{}, false
	}
	parts := strings.Split(header, "-")
	if len(parts) < 4 {
		return telemetry.SpanContext{}, false
	}
	versionStr, traceIDStr, spanIDStr, flagsStr := parts[0], parts[1], parts[2], parts[3]
	if len(versionStr) != 2 {
		return telemetry.SpanContext{}, false
	}
	version, err := strconv.ParseUint(versionStr, 16, 8)
	if err != nil || hasUpper(versionStr) || version > 0xfe {
		return telemetry.SpanContext{}, false
	}
	if version == 0 && len(parts) != 4 {
		return telemetry.SpanContext{}, false
	}
	if hasUpper(traceIDStr) || hasUpper(spanIDStr) || hasUpper(flagsStr) {
		return telemetry.SpanContext{}, false
	}
	traceID, err := telemetry.TraceIDFromHex(traceIDStr)
	if err != nil || len(traceIDStr) != 32 || !traceID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	spanID, err := telemetry.SpanIDFromHex(spanIDStr)
	if err != nil || !spanID.IsValid() {
		return telemetry.SpanContext{}, false
	}
	if len(flagsStr) != 2 {
		return telemetry.SpanContext{}, false
	}
	flagsByte, err := strconv.ParseUint(flagsStr, 16, 8)
	if err != nil {
		return telemetry.SpanContext{}, false
	}
	flags := telemetry.TraceFlags(flagsByte) & telemetry.FlagsSampled
	return telemetry.NewSpanContext(traceID, spanID, flags, telemetry.TraceState{}, true), true
}

func hasUpper(s string) bool {
	for _, c := range s {
		if c >= 'A' && c <= 'F' {
			return true
		}
	}
	return false
}

func hex2(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}
