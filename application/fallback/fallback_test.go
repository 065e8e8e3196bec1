package fallback

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_PrimarySucceeds(t *testing.T) {
	fallbackCalls := 0
	v, err := Retry(context.Background(),
		func(context.Context) (string, error) { return "primary", nil },
		func(context.Context) (string, error) { fallbackCalls++; return "fallback", nil },
		"unused", nil)

	require.NoError(t, err)
	assert.Equal(t, "primary", v)
	assert.Zero(t, fallbackCalls)
}

func TestRetry_FallbackCalledOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	fallbackCalls := 0
	v, err := Retry(context.Background(),
		func(context.Context) (int, error) { return 0, errors.New("native gone") },
		func(context.Context) (int, error) { fallbackCalls++; return 7, nil },
		"falling back to remote bridge", logger)

	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, fallbackCalls)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "falling back to remote bridge")
	assert.Contains(t, buf.String(), "native gone")
}

func TestRetry_FallbackErrorUnchanged(t *testing.T) {
	fallbackErr := errors.New("bridge down")
	_, err := Retry(context.Background(),
		func(context.Context) (int, error) { return 0, errors.New("first") },
		func(context.Context) (int, error) { return 0, fallbackErr },
		"retry", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	assert.Same(t, fallbackErr, err)
}
