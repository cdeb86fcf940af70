package trace

import "context"

// Exporter hands finished span snapshots to an external collaborator (an
// OTLP client, a Jaeger-thrift encoder, a Datadog agent writer, ...). This
// package implements only the interface: wire codecs live outside this
// module, named but not built.
type Exporter interface {
	// ExportSpans hands a batch of finished spans to the exporter. The
	// passed slice must not be retained past the call.
	ExportSpans(ctx context.Context, spans []ReadOnlySpan) error
	// Shutdown flushes and releases any resources held by the exporter.
	// Calls to ExportSpans after Shutdown has returned must fail.
	Shutdown(ctx context.Context) error
}
