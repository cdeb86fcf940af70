package metric

import "context"

// PushExporter hands a completed collection to an external collaborator (an
// OTLP client, a Prometheus remote-write client, a Datadog agent writer,
// ...). This package implements only the interface: wire codecs live
// outside this module, named but not built, the same way sdk/trace.Exporter
// does for spans.
type PushExporter interface {
	// Export hands one ResourceMetrics snapshot to the exporter. The
	// passed value must not be retained past the call.
	Export(ctx context.Context, rm ResourceMetrics) error
	// Shutdown flushes and releases any resources held by the exporter.
	Shutdown(ctx context.Context) error
}
