package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := Wrap(CodeForecastError, "failed to fetch forecast", cause)

	require.EqualError(t, err, "failed to fetch forecast: dial tcp: timeout")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeForecastError))
	require.False(t, IsCode(err, CodeInvalidInput))

	wrapped := fmt.Errorf("advice: %w", err)
	require.True(t, IsCode(wrapped, CodeForecastError))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(CodeInvalidInput, "latitude out of range", nil)
	require.EqualError(t, err, "latitude out of range")
	require.True(t, IsCode(err, CodeInvalidInput))
	require.False(t, IsCode(fmt.Errorf("plain"), CodeInvalidInput))
}
