// Package propagation implements the W3C, B3, Jaeger and AWS X-Ray wire
// codecs, plus the abstract carrier interfaces they operate against and a
// composite propagator that runs several at once.
package propagation

import (
	"context"
	"net/http"
)

// Getter reads string values out of an abstract carrier (an HTTP header map,
// a message-broker header set, ...). Keys is used by debug logging and by
// composite propagators to report their combined field list.
type Getter interface {
	Get(key string) string
	Keys() []string
}

// Setter writes string values into an abstract carrier.
type Setter interface {
	Set(key, value string)
}

// TextMapCarrier is satisfied by any type usable as both extraction source
// and injection target (the common case: one mutable header map threaded
// through both directions of a request).
type TextMapCarrier interface {
	Getter
	Setter
}

// TextMapPropagator injects trace/baggage state into, and extracts it from,
// a TextMapCarrier.
type TextMapPropagator interface {
	Inject(ctx context.Context, carrier TextMapCarrier)
	Extract(ctx context.Context, carrier TextMapCarrier) context.Context
	Fields() []string
}

// HTTPHeadersCarrier adapts an http.Header to TextMapCarrier, canonicalizing
// key case the way net/http already does.
type HTTPHeadersCarrier http.Header

// Get implements Getter.
func (c HTTPHeadersCarrier) Get(key string) string { return http.Header(c).Get(key) }

// Set implements Setter.
func (c HTTPHeadersCarrier) Set(key, value string) { http.Header(c).Set(key, value) }

// Keys implements Getter.
func (c HTTPHeadersCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// MapCarrier adapts a plain map[string]string to TextMapCarrier, for
// transports (message queues, gRPC metadata copied to a map) that aren't
// HTTP headers.
type MapCarrier map[string]string

// Get implements Getter.
func (c MapCarrier) Get(key string) string { return c[key] }

// Set implements Setter.
func (c MapCarrier) Set(key, value string) { c[key] = value }

// Keys implements Getter.
func (c MapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
