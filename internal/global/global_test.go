package global

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTracerProvider struct{ name string }

func TestTracerProviderRoundTrip(t *testing.T) {
	_, ok := GetTracerProvider()
	require.False(t, ok)

	SetTracerProvider(fakeTracerProvider{name: "a"})
	p, ok := GetTracerProvider()
	require.True(t, ok)
	require.Equal(t, fakeTracerProvider{name: "a"}, p)
}

func TestErrorHandlerDefaultIsNoop(t *testing.T) {
	require.NotPanics(t, func() { Handle(errors.New("boom")) })
}

func TestSetErrorHandler(t *testing.T) {
	defer SetErrorHandler(nil)
	var got error
	SetErrorHandler(ErrorHandlerFunc(func(err error) { got = err }))
	Handle(errors.New("export failed"))
	require.EqualError(t, got, "export failed")
}

func TestSetErrorHandlerNilRestoresNoop(t *testing.T) {
	SetErrorHandler(ErrorHandlerFunc(func(error) { t.Fatal("should not be called") }))
	SetErrorHandler(nil)
	require.NotPanics(t, func() { Handle(errors.New("boom")) })
}
