package telemetry

// SpanContext is the immutable, serializable portion of a span's identity:
// everything a propagator needs to carry across a process boundary. It
// carries no reference to the span's mutable state (name, attributes,
// timestamps) by design.
type SpanContext struct {
	traceID    TraceID
	spanID     SpanID
	traceFlags TraceFlags
	traceState TraceState
	remote     bool
}

// NewSpanContext builds a SpanContext from its components. remote should be
// true when the context was extracted from an incoming carrier rather than
// created locally.
func NewSpanContext(traceID TraceID, spanID SpanID, flags TraceFlags, state TraceState, remote bool) SpanContext {
	return SpanContext{traceID: traceID, spanID: spanID, traceFlags: flags, traceState: state, remote: remote}
}

// TraceID returns the trace identifier.
func (sc SpanContext) TraceID() TraceID { return sc.traceID }

// SpanID returns the span identifier.
func (sc SpanContext) SpanID() SpanID { return sc.spanID }

// TraceFlags returns the flag byte.
func (sc SpanContext) TraceFlags() TraceFlags { return sc.traceFlags }

// TraceState returns the vendor tracestate list.
func (sc SpanContext) TraceState() TraceState { return sc.traceState }

// IsRemote reports whether this context was extracted from a remote carrier,
// as opposed to being created by a local Tracer.
func (sc SpanContext) IsRemote() bool { return sc.remote }

// IsSampled is a convenience wrapper over TraceFlags().IsSampled().
func (sc SpanContext) IsSampled() bool { return sc.traceFlags.IsSampled() }

// IsValid reports whether both the trace id and span id are non-zero. An
// invalid SpanContext never propagates and never produces an exported span.
func (sc SpanContext) IsValid() bool { return sc.traceID.IsValid() && sc.spanID.IsValid() }

// WithTraceState returns a copy of sc carrying a new TraceState, leaving the
// trace id, span id, flags and remote bit untouched.
func (sc SpanContext) WithTraceState(ts TraceState) SpanContext {
	sc.traceState = ts
	return sc
}

// WithTraceFlags returns a copy of sc carrying new flags.
func (sc SpanContext) WithTraceFlags(flags TraceFlags) SpanContext {
	sc.traceFlags = flags
	return sc
}

// WithRemote returns a copy of sc with the remote bit set to remote. Used by
// propagator Extract implementations, which always produce remote contexts.
func (sc SpanContext) WithRemote(remote bool) SpanContext {
	sc.remote = remote
	return sc
}

// Equal reports whether two SpanContexts carry the same trace id, span id,
// flags and remote bit. TraceState is intentionally excluded: it is opaque
// vendor data that does not affect identity (mirrors the W3C spec's
// definition of trace context equality).
func (sc SpanContext) Equal(other SpanContext) bool {
	return sc.traceID == other.traceID &&
		sc.spanID == other.spanID &&
		sc.traceFlags == other.traceFlags &&
		sc.remote == other.remote
}
