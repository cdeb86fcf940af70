// Package env centralizes lookup of the OTEL_* environment variables that
// seed SDK defaults before explicit options override them.
package env

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// supported is the allow-list of environment variables this SDK reads.
// LookupEnv on anything outside this set reports ok=false.
var supported = map[string]bool{
	"OTEL_SERVICE_NAME":                       true,
	"OTEL_RESOURCE_ATTRIBUTES":                true,
	"OTEL_TRACES_SAMPLER":                     true,
	"OTEL_TRACES_SAMPLER_ARG":                 true,
	"OTEL_SPAN_ATTRIBUTE_COUNT_LIMIT":         true,
	"OTEL_SPAN_EVENT_COUNT_LIMIT":             true,
	"OTEL_SPAN_LINK_COUNT_LIMIT":              true,
	"OTEL_SPAN_ATTRIBUTE_VALUE_LENGTH_LIMIT":  true,
	"OTEL_BSP_MAX_QUEUE_SIZE":                 true,
	"OTEL_BSP_SCHEDULE_DELAY":                 true,
	"OTEL_BSP_MAX_EXPORT_BATCH_SIZE":          true,
	"OTEL_BSP_EXPORT_TIMEOUT":                 true,
	"OTEL_METRIC_EXPORT_INTERVAL":             true,
	"OTEL_METRIC_EXPORT_TIMEOUT":              true,
	"OTEL_PROPAGATORS":                        true,
}

// LookupEnv returns the value of key and whether it is both set and a
// recognized configuration variable. An unrecognized key always reports
// ok=false, regardless of whether it happens to be set in the environment.
func LookupEnv(key string) (string, bool) {
	if !supported[key] {
		return "", false
	}
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return v, true
}

// Getenv is LookupEnv without the presence flag; it returns "" for unset or
// unrecognized keys.
func Getenv(key string) string {
	v, _ := LookupEnv(key)
	return v
}

// String returns the named variable's value, or def if unset/unrecognized.
func String(key, def string) string {
	if v, ok := LookupEnv(key); ok {
		return v
	}
	return def
}

// Int parses the named variable as a base-10 integer, falling back to def on
// absence or parse failure.
func Int(key string, def int) int {
	v, ok := LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Bool parses the named variable as a boolean ("true"/"false", case
// insensitive), falling back to def on absence or parse failure.
func Bool(key string, def bool) bool {
	v, ok := LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// Duration parses the named variable as a count of milliseconds (the unit
// every OTEL_* timing variable uses), falling back to def on absence or
// parse failure.
func Duration(key string, def time.Duration) time.Duration {
	v, ok := LookupEnv(key)
	if !ok {
		return def
	}
	ms, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Float64 parses the named variable as a floating-point number, falling
// back to def on absence or parse failure.
func Float64(key string, def float64) float64 {
	v, ok := LookupEnv(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// StringList splits a comma-separated variable (OTEL_PROPAGATORS,
// OTEL_RESOURCE_ATTRIBUTES) into trimmed, non-empty entries.
func StringList(key string) []string {
	v, ok := LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
