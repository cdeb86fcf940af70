package propagation

import (
	"context"
	"strings"
	"time"

	"github.com/signalcore/telemetry-go/telemetry"
)

const xrayHeader = "X-Amzn-Trace-Id"

// XRay implements the AWS X-Ray trace header format:
// `Root=1-HHHHHHHH-XXXXXXXXXXXXXXXXXXXXXXXX;Parent=SSSSSSSSSSSSSSSS;Sampled=0|1|?`
// plus arbitrary extra key-value pairs that round-trip through TraceState.
//
// A Sampled value of "?" means the decision is deferred. This third state
// must never leak into the W3C/B3/Jaeger wire formats, which only define a
// single Sampled bit. This package
// therefore keeps "deferred" out of telemetry.TraceFlags entirely: it is
// carried in a context value private to this file, read only by
// DeferredFromContext and by XRay.Inject (which writes it back as "?"), so
// no other propagator or SpanContext field can ever observe or re-serialize
// it.
type XRay struct{}

type xrayContextKey struct{}

// Fields implements TextMapPropagator.
func (XRay) Fields() []string { return []string{xrayHeader} }

// Inject writes the active span context as an X-Amzn-Trace-Id header. A
// no-op when the active span context is invalid.
func (XRay) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := telemetry.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	root := xrayRootFromTraceID(sc.TraceID())
	sampled := "0"
	if deferred, ok := ctx.Value(xrayContextKey{}).(bool); ok && deferred {
		sampled = "?"
	} else if sc.IsSampled() {
		sampled = "1"
	}
	var b strings.Builder
	b.WriteString("Root=")
	b.WriteString(root)
	b.WriteString(";Parent=")
	b.WriteString(sc.SpanID().String())
	b.WriteString(";Sampled=")
	b.WriteString(sampled)
	for _, entry := range sc.TraceState().Entries() {
		b.WriteByte(';')
		b.WriteString(titleCase(entry.Key))
		b.WriteByte('=')
		b.WriteString(entry.Value)
	}
	carrier.Set(xrayHeader, b.String())
}

// Extract parses an X-Amzn-Trace-Id header. Any parse error leaves ctx
// unchanged.
func (XRay) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	raw := carrier.Get(xrayHeader)
	if raw == "" {
		return ctx
	}
	fields := map[string]string{}
	var extra []kvPair
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return ctx
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		switch strings.ToLower(key) {
		case "root", "parent", "sampled":
			fields[strings.ToLower(key)] = val
		default:
			extra = append(extra, kvPair{key: strings.ToLower(key), value: val})
		}
	}
	traceID, ok := parseXRayRoot(fields["root"])
	if !ok {
		return ctx
	}
	spanID, err := telemetry.SpanIDFromHex(fields["parent"])
	if err != nil || !spanID.IsValid() {
		return ctx
	}
	var flags telemetry.TraceFlags
	deferred := false
	switch fields["sampled"] {
	case "1":
		flags = flags.WithSampled(true)
	case "0":
	case "?":
		deferred = true
	default:
		return ctx
	}
	ts := telemetry.TraceState{}
	for _, kv := range extra {
		ts, _ = ts.Insert(kv.key, kv.value)
	}
	sc := telemetry.NewSpanContext(traceID, spanID, flags, ts, true)
	ctx = telemetry.ContextWithSpanContext(ctx, sc)
	if deferred {
		ctx = context.WithValue(ctx, xrayContextKey{}, true)
	}
	return ctx
}

// DeferredFromContext reports whether ctx carries an X-Ray deferred sampling
// decision extracted by this package. No other propagator ever sets or reads
// this value.
func DeferredFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(xrayContextKey{}).(bool)
	return v
}

type kvPair struct{ key, value string }

func titleCase(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// xrayEpochWidth is the hex width of the X-Ray trace id's embedded Unix
// epoch-seconds prefix.
const xrayEpochWidth = 8

func xrayRootFromTraceID(t telemetry.TraceID) string {
	hex := t.String()
	return "1-" + hex[:xrayEpochWidth] + "-" + hex[xrayEpochWidth:]
}

func parseXRayRoot(root string) (telemetry.TraceID, bool) {
	if !strings.HasPrefix(root, "1-") {
		return telemetry.TraceID{}, false
	}
	rest := strings.TrimPrefix(root, "1-")
	parts := strings.SplitN(rest, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 8 || len(parts[1]) != 24 {
		return telemetry.TraceID{}, false
	}
	t, err := telemetry.TraceIDFromHex(parts[0] + parts[1])
	if err != nil || !t.IsValid() {
		return telemetry.TraceID{}, false
	}
	return t, true
}

// NewXRayEpochTraceID builds a TraceID whose first 4 bytes encode now as
// Unix epoch seconds, matching X-Ray's requirement that Root IDs be
// time-ordered; the remaining 12 bytes are random.
func NewXRayEpochTraceID(now time.Time) telemetry.TraceID {
	t := telemetry.NewTraceID()
	epoch := uint32(now.Unix())
	t[0] = byte(epoch >> 24)
	t[1] = byte(epoch >> 16)
	t[2] = byte(epoch >> 8)
	t[3] = byte(epoch)
	return t
}
