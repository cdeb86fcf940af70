package telemetry

import (
	"context"

	"github.com/signalcore/telemetry-go/telemetry/attribute"
	"github.com/signalcore/telemetry-go/telemetry/baggage"
	"github.com/signalcore/telemetry-go/telemetry/codes"
)

// contextKey is an unexported type so values stored by this package can never
// collide with keys set by other packages sharing the same context.Context.
type contextKey int

const (
	spanContextKey contextKey = iota
	baggageContextKey
)

// noopSpan is returned by SpanFromContext when ctx carries no span, so
// callers can unconditionally call Span methods without a nil check.
type noopSpan struct{ sc SpanContext }

func (s noopSpan) SpanContext() SpanContext         { return s.sc }
func (noopSpan) IsRecording() bool                  { return false }
func (noopSpan) SetStatus(codes.Code, string)       {}
func (noopSpan) SetAttributes(...attribute.KeyValue) {}
func (noopSpan) AddEvent(string, ...EventOption)    {}
func (noopSpan) RecordError(error, ...EventOption)  {}
func (noopSpan) End(...EndOption)                   {}
func (noopSpan) SetName(string)                     {}

var defaultNoopSpan Span = noopSpan{}

// ContextWithSpan returns a copy of ctx in which s is the current span.
func ContextWithSpan(ctx context.Context, s Span) context.Context {
	return context.WithValue(ctx, spanContextKey, s)
}

// SpanFromContext returns the current span carried by ctx, or a no-op Span
// (never nil) when ctx carries none.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return defaultNoopSpan
	}
	if s, ok := ctx.Value(spanContextKey).(Span); ok {
		return s
	}
	return defaultNoopSpan
}

// ContextWithSpanContext returns a copy of ctx carrying sc as the current
// span's context, wrapped in a non-recording Span. Used by propagator
// Extract implementations, which reconstruct identity but not a live Span.
func ContextWithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return ContextWithSpan(ctx, noopSpan{sc: sc})
}

// ContextWithBaggage returns a copy of ctx carrying b as the current baggage.
func ContextWithBaggage(ctx context.Context, b baggage.Baggage) context.Context {
	return context.WithValue(ctx, baggageContextKey, b)
}

// BaggageFromContext returns the baggage carried by ctx, or an empty Baggage
// when none was set.
func BaggageFromContext(ctx context.Context) baggage.Baggage {
	if ctx == nil {
		return baggage.Baggage{}
	}
	if b, ok := ctx.Value(baggageContextKey).(baggage.Baggage); ok {
		return b
	}
	return baggage.Baggage{}
}

// Guard is returned by Attach; Detach restores the context that was current
// before the matching Attach call.
//
// Unlike a thread-local "current context" cell, this package carries no
// hidden global stack: context.Context is already a persistent,
// structurally-shared map, and the caller holding a reference to its parent
// *is* the LIFO guard. Attach(ctx, span) is exactly
// context.WithValue; Detach is exactly "go back to using the ctx you saved."
// Because there is no shared mutable stack, out-of-order Detach calls cannot
// corrupt anything — each Guard only ever restores its own saved parent.
type Guard struct {
	parent context.Context
}

// Attach pushes s as the current span of ctx, returning the new context and
// a Guard whose Detach restores ctx.
func Attach(ctx context.Context, s Span) (context.Context, *Guard) {
	return ContextWithSpan(ctx, s), &Guard{parent: ctx}
}

// Detach returns the context that was current before the matching Attach
// call.
func (g *Guard) Detach() context.Context { return g.parent }
