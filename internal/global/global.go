// Package global holds the SDK's process-wide mutable state: the installed
// TracerProvider, MeterProvider, propagator set, and error handler hook.
// Each is a separate slot, initialize-once via atomic store, no locking on
// the hot path; the error handler is a fourth, "soft" slot so applications
// can route SDK errors into their own logging without a hard dependency.
//
// Each slot stores a boxed interface value behind atomic.Value so readers
// never block on a writer installing a new provider. Before the first
// install, the provider and propagator getters report nothing installed
// (nil, false); only the error handler slot has a default.
package global

import "sync/atomic"

// TracerProvider is the subset of telemetry.TracerProvider this package
// depends on; declared locally to avoid an import cycle (telemetry imports
// nothing from internal/global, and neither SDK provider registers itself
// here; installing a provider is left to the application).
type TracerProvider interface {
	// Tracer name is intentionally untyped here (interface{}) — the real
	// signature lives on telemetry.TracerProvider; this package only ever
	// stores and returns values satisfying it, never calls through it.
}

// MeterProvider mirrors TracerProvider's role for the metrics API.
type MeterProvider interface{}

// Propagator mirrors TracerProvider's role for the composite propagator set.
type Propagator interface{}

// ErrorHandler receives errors the SDK cannot surface on a caller's hot
// path: export failures, timeouts, and configuration errors discovered
// asynchronously.
type ErrorHandler interface {
	Handle(err error)
}

// ErrorHandlerFunc adapts a function to an ErrorHandler.
type ErrorHandlerFunc func(error)

// Handle implements ErrorHandler.
func (f ErrorHandlerFunc) Handle(err error) { f(err) }

type noopErrorHandler struct{}

func (noopErrorHandler) Handle(error) {}

var (
	tracerProvider  atomic.Value
	meterProvider   atomic.Value
	propagator      atomic.Value
	errorHandler    atomic.Value
)

func init() {
	errorHandler.Store(wrapErrorHandler(noopErrorHandler{}))
}

type errorHandlerBox struct{ h ErrorHandler }
type tracerProviderBox struct{ p TracerProvider }
type meterProviderBox struct{ p MeterProvider }
type propagatorBox struct{ p Propagator }

func wrapErrorHandler(h ErrorHandler) errorHandlerBox { return errorHandlerBox{h: h} }

// SetTracerProvider installs p as the global TracerProvider.
func SetTracerProvider(p TracerProvider) { tracerProvider.Store(tracerProviderBox{p: p}) }

// GetTracerProvider returns the installed TracerProvider, or (nil, false) if
// none has been installed yet.
func GetTracerProvider() (TracerProvider, bool) {
	v, ok := tracerProvider.Load().(tracerProviderBox)
	if !ok {
		return nil, false
	}
	return v.p, true
}

// SetMeterProvider installs p as the global MeterProvider.
func SetMeterProvider(p MeterProvider) { meterProvider.Store(meterProviderBox{p: p}) }

// GetMeterProvider returns the installed MeterProvider, or (nil, false) if
// none has been installed yet.
func GetMeterProvider() (MeterProvider, bool) {
	v, ok := meterProvider.Load().(meterProviderBox)
	if !ok {
		return nil, false
	}
	return v.p, true
}

// SetPropagator installs p as the global propagator set.
func SetPropagator(p Propagator) { propagator.Store(propagatorBox{p: p}) }

// GetPropagator returns the installed propagator set, or (nil, false) if none
// has been installed yet.
func GetPropagator() (Propagator, bool) {
	v, ok := propagator.Load().(propagatorBox)
	if !ok {
		return nil, false
	}
	return v.p, true
}

// SetErrorHandler installs h as the global error handler. A nil h restores
// the no-op default.
func SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = noopErrorHandler{}
	}
	errorHandler.Store(wrapErrorHandler(h))
}

// Handle routes err to the installed error handler (a no-op default before
// any SetErrorHandler call).
func Handle(err error) {
	if err == nil {
		return
	}
	errorHandler.Load().(errorHandlerBox).h.Handle(err)
}
