// Package telemetry is the signal-agnostic API surface: trace identifiers,
// the propagation context, span status codes, and the interfaces (Span,
// Tracer, TracerProvider) that instrumentation code programs against. The
// concrete implementation lives in sdk/trace and sdk/metric.
package telemetry

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// TraceID is a 128-bit identifier unique to a trace. The all-zero value is
// reserved to mean "invalid".
type TraceID [16]byte

// SpanID is a 64-bit identifier unique to a span within a trace. The all-zero
// value is reserved to mean "invalid".
type SpanID [8]byte

var (
	// NilTraceID is the invalid, all-zero TraceID.
	NilTraceID TraceID
	// NilSpanID is the invalid, all-zero SpanID.
	NilSpanID SpanID
)

// IsValid reports whether t is non-zero.
func (t TraceID) IsValid() bool { return t != NilTraceID }

// String renders t as 32 lowercase hex characters.
func (t TraceID) String() string { return hex.EncodeToString(t[:]) }

// IsValid reports whether s is non-zero.
func (s SpanID) IsValid() bool { return s != NilSpanID }

// String renders s as 16 lowercase hex characters.
func (s SpanID) String() string { return hex.EncodeToString(s[:]) }

// ErrInvalidTraceID is returned by TraceIDFromHex when the input is not
// well-formed lowercase hex of the expected width.
var ErrInvalidTraceID = errors.New("telemetry: invalid trace id")

// ErrInvalidSpanID is returned by SpanIDFromHex when the input is not
// well-formed lowercase hex of the expected width.
var ErrInvalidSpanID = errors.New("telemetry: invalid span id")

// TraceIDFromHex parses a TraceID from its hex form. Exactly 32 lowercase hex
// characters are accepted unpadded; 1-31 characters are accepted left-padded
// with zeroes to support interop with propagators (notably Jaeger) that carry
// shorter trace ids on the wire.
func TraceIDFromHex(h string) (TraceID, error) {
	var t TraceID
	if len(h) == 0 || len(h) > 32 {
		return t, ErrInvalidTraceID
	}
	if len(h) < 32 {
		h = padLeft(h, 32)
	}
	b, err := decodeLowerHex(h)
	if err != nil || len(b) != 16 {
		return t, ErrInvalidTraceID
	}
	copy(t[:], b)
	return t, nil
}

// SpanIDFromHex parses a SpanID from exactly 16 lowercase hex characters.
func SpanIDFromHex(h string) (SpanID, error) {
	var s SpanID
	if len(h) != 16 {
		return s, ErrInvalidSpanID
	}
	b, err := decodeLowerHex(h)
	if err != nil || len(b) != 8 {
		return s, ErrInvalidSpanID
	}
	copy(s[:], b)
	return s, nil
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	buf := make([]byte, width)
	for i := range buf {
		buf[i] = '0'
	}
	copy(buf[width-len(s):], s)
	return string(buf)
}

// decodeLowerHex behaves like hex.DecodeString but additionally rejects any
// upper-case hex digit, matching the W3C traceparent grammar, which requires
// strictly lowercase hex and must reject upper-case input rather than
// silently normalizing it.
func decodeLowerHex(s string) ([]byte, error) {
	for _, c := range s {
		if c >= 'A' && c <= 'F' {
			return nil, ErrInvalidTraceID
		}
	}
	return hex.DecodeString(s)
}

// NewTraceID returns a cryptographically-seeded random non-zero TraceID.
func NewTraceID() TraceID {
	for {
		var t TraceID
		_, _ = rand.Read(t[:])
		if t.IsValid() {
			return t
		}
	}
}

// NewSpanID returns a cryptographically-seeded random non-zero SpanID.
func NewSpanID() SpanID {
	for {
		var s SpanID
		_, _ = rand.Read(s[:])
		if s.IsValid() {
			return s
		}
	}
}

// TraceFlags is an 8-bit set of per-span flags carried alongside a
// SpanContext. Only bit 0 (Sampled) is defined by the wire formats, and
// unknown bits are ignored for behavior. The W3C traceparent codec writes the
// raw byte on inject but keeps only the Sampled bit on extract.
type TraceFlags uint8

// FlagsSampled marks a SpanContext as sampled for export.
const FlagsSampled = TraceFlags(0x01)

// IsSampled reports whether the Sampled bit is set.
func (f TraceFlags) IsSampled() bool { return f&FlagsSampled == FlagsSampled }

// WithSampled returns a copy of f with the Sampled bit set to sampled.
func (f TraceFlags) WithSampled(sampled bool) TraceFlags {
	if sampled {
		return f | FlagsSampled
	}
	return f &^ FlagsSampled
}
