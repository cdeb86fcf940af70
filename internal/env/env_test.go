package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLookupEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "checkout")
	v, ok := LookupEnv("OTEL_SERVICE_NAME")
	require.True(t, ok)
	require.Equal(t, "checkout", v)
	require.Equal(t, "checkout", Getenv("OTEL_SERVICE_NAME"))

	// Unrecognized key: never surfaced even if set in the real environment.
	t.Setenv("OTEL_SOME_UNKNOWN_FUTURE_VAR", "value")
	v, ok = LookupEnv("OTEL_SOME_UNKNOWN_FUTURE_VAR")
	require.False(t, ok)
	require.Empty(t, v)
}

func TestString(t *testing.T) {
	require.Equal(t, "default", String("OTEL_SERVICE_NAME", "default"))
	t.Setenv("OTEL_SERVICE_NAME", "checkout")
	require.Equal(t, "checkout", String("OTEL_SERVICE_NAME", "default"))
}

func TestInt(t *testing.T) {
	require.Equal(t, 2048, Int("OTEL_BSP_MAX_QUEUE_SIZE", 2048))
	t.Setenv("OTEL_BSP_MAX_QUEUE_SIZE", "512")
	require.Equal(t, 512, Int("OTEL_BSP_MAX_QUEUE_SIZE", 2048))
	t.Setenv("OTEL_BSP_MAX_QUEUE_SIZE", "not-a-number")
	require.Equal(t, 2048, Int("OTEL_BSP_MAX_QUEUE_SIZE", 2048))
}

func TestBool(t *testing.T) {
	require.True(t, Bool("OTEL_SOME_FLAG_NOT_SUPPORTED", true))
}

func TestDuration(t *testing.T) {
	require.Equal(t, 5*time.Second, Duration("OTEL_BSP_SCHEDULE_DELAY", 5*time.Second))
	t.Setenv("OTEL_BSP_SCHEDULE_DELAY", "1500")
	require.Equal(t, 1500*time.Millisecond, Duration("OTEL_BSP_SCHEDULE_DELAY", 5*time.Second))
	t.Setenv("OTEL_BSP_SCHEDULE_DELAY", "-1")
	require.Equal(t, 5*time.Second, Duration("OTEL_BSP_SCHEDULE_DELAY", 5*time.Second))
}

func TestStringList(t *testing.T) {
	require.Nil(t, StringList("OTEL_PROPAGATORS"))
	t.Setenv("OTEL_PROPAGATORS", "tracecontext, baggage,b3")
	require.Equal(t, []string{"tracecontext", "baggage", "b3"}, StringList("OTEL_PROPAGATORS"))
}
