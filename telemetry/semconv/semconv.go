// Package semconv holds the handful of semantic-convention attribute keys
// this module's own code needs to populate: resource identity for
// sdk/resource detectors and the service/SDK self-description every
// TracerProvider/MeterProvider attaches. Grounded on
// opentelemetry-semantic-conventions/src/resource.rs; this is a curated
// subset, not the full convention catalog (that belongs to an exporter,
// out of scope here).
package semconv

import "github.com/signalcore/telemetry-go/telemetry/attribute"

const (
	ServiceNameKey      = attribute.Key("service.name")
	ServiceNamespaceKey = attribute.Key("service.namespace")
	ServiceVersionKey   = attribute.Key("service.version")
	ServiceInstanceIDKey = attribute.Key("service.instance.id")

	TelemetrySDKNameKey     = attribute.Key("telemetry.sdk.name")
	TelemetrySDKLanguageKey = attribute.Key("telemetry.sdk.language")
	TelemetrySDKVersionKey  = attribute.Key("telemetry.sdk.version")

	HostNameKey = attribute.Key("host.name")
	HostIDKey   = attribute.Key("host.id")

	ProcessPIDKey             = attribute.Key("process.pid")
	ProcessRuntimeNameKey     = attribute.Key("process.runtime.name")
	ProcessRuntimeVersionKey  = attribute.Key("process.runtime.version")
)

// ServiceName returns the service.name attribute.
func ServiceName(v string) attribute.KeyValue { return ServiceNameKey.String(v) }

// HostName returns the host.name attribute.
func HostName(v string) attribute.KeyValue { return HostNameKey.String(v) }

// TelemetrySDKLanguageGo is the fixed telemetry.sdk.language value for this
// implementation.
const TelemetrySDKLanguageGo = "go"
