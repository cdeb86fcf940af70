// Package resource implements the entity-describing attribute set attached
// to every signal a provider exports, merged left-to-right from zero or
// more detectors at provider build time.
package resource

import (
	"github.com/signalcore/telemetry-go/telemetry/attribute"
)

// Resource is the immutable, merged attribute set identifying the entity
// producing telemetry (a process, host, container, or service instance).
// Once built it never changes for the provider's lifetime and is safely
// shared by value-equivalent reference across every Tracer/Meter it backs.
type Resource struct {
	set       attribute.Set
	schemaURL string
}

// Empty is the zero Resource: no attributes, no schema URL.
var Empty = Resource{}

// NewWithAttributes builds a Resource directly from a fixed attribute set,
// bypassing detection. Used by tests and by callers that already know their
// resource attributes (e.g. OTEL_RESOURCE_ATTRIBUTES parsing).
func NewWithAttributes(schemaURL string, kvs ...attribute.KeyValue) Resource {
	return Resource{set: attribute.NewSet(kvs...), schemaURL: schemaURL}
}

// Set returns the resource's deduplicated, sorted attribute set.
func (r Resource) Set() attribute.Set { return r.set }

// SchemaURL returns the resource's schema URL, or "" if none was set or
// survived merge conflict resolution.
func (r Resource) SchemaURL() string { return r.schemaURL }

// Attributes returns the resource's key-value pairs in sorted order.
func (r Resource) Attributes() []attribute.KeyValue { return r.set.ToSlice() }
