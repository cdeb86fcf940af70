package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDFromHex(t *testing.T) {
	id, err := TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", id.String())
	assert.True(t, id.IsValid())
}

func TestTraceIDFromHexLeftPads(t *testing.T) {
	id, err := TraceIDFromHex("4736")
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000000004736", id.String())
}

func TestTraceIDFromHexRejectsUppercase(t *testing.T) {
	_, err := TraceIDFromHex("4BF92F3577B34DA6A3CE929D0E0E4736")
	assert.ErrorIs(t, err, ErrInvalidTraceID)
}

func TestTraceIDZeroIsInvalid(t *testing.T) {
	assert.False(t, NilTraceID.IsValid())
}

func TestSpanIDFromHexRequiresExactWidth(t *testing.T) {
	_, err := SpanIDFromHex("abc")
	assert.ErrorIs(t, err, ErrInvalidSpanID)

	id, err := SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	assert.True(t, id.IsValid())
}

func TestNewTraceIDAndSpanIDAreNonZero(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, NewTraceID().IsValid())
		assert.True(t, NewSpanID().IsValid())
	}
}

func TestTraceFlagsSampled(t *testing.T) {
	var f TraceFlags
	assert.False(t, f.IsSampled())
	f = f.WithSampled(true)
	assert.True(t, f.IsSampled())
	f = f.WithSampled(false)
	assert.False(t, f.IsSampled())
}
