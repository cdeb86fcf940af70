package resource

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/signalcore/telemetry-go/internal/env"
	"github.com/signalcore/telemetry-go/telemetry/attribute"
	"github.com/signalcore/telemetry-go/telemetry/semconv"
)

// FromEnvironment detects OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES,
// read via the env package rather than ad hoc os.Getenv calls, wrapped as a
// Detector so it composes with the rest of the merge pipeline.
var FromEnvironment Detector = DetectorFunc(func(context.Context) (attribute.Set, string, error) {
	var kvs []attribute.KeyValue
	if name := env.String("OTEL_SERVICE_NAME", ""); name != "" {
		kvs = append(kvs, semconv.ServiceName(name))
	}
	for _, entry := range env.StringList("OTEL_RESOURCE_ATTRIBUTES") {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		kvs = append(kvs, attribute.String(strings.TrimSpace(k), strings.TrimSpace(v)))
	}
	return attribute.NewSet(kvs...), "", nil
})

// Host detects the local hostname via os.Hostname.
var Host Detector = DetectorFunc(func(context.Context) (attribute.Set, string, error) {
	name, err := os.Hostname()
	if err != nil {
		return attribute.Set{}, "", err
	}
	return attribute.NewSet(semconv.HostName(name)), "", nil
})

// TelemetrySDK reports this module's own language/runtime identity, always
// succeeds, and never needs a timeout.
var TelemetrySDK Detector = DetectorFunc(func(context.Context) (attribute.Set, string, error) {
	return attribute.NewSet(
		attribute.KeyValue{Key: semconv.TelemetrySDKLanguageKey, Value: attribute.StringValue(semconv.TelemetrySDKLanguageGo)},
		attribute.KeyValue{Key: semconv.ProcessRuntimeNameKey, Value: attribute.StringValue("go")},
		attribute.KeyValue{Key: semconv.ProcessRuntimeVersionKey, Value: attribute.StringValue(runtime.Version())},
	), "", nil
})

// Default returns the Resource built from FromEnvironment, Host, and
// TelemetrySDK, the composition every NewTracerProvider/NewMeterProvider
// falls back to when the caller supplies no WithResource option.
func Default() Resource {
	return New(context.Background(), WithDetectors(TelemetrySDK, Host, FromEnvironment))
}
