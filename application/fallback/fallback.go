// Package fallback composes a preferred initializer with a single fallback.
package fallback

import (
	"context"
	"log/slog"
)

// Func builds a value, typically a capability client.
type Func[T any] func(context.Context) (T, error)

// Retry runs primary and returns its value on success. If primary fails, the failure
// is logged at WARN with logMessage and fallback is run exactly once; its value and
// error are returned unchanged. There is no backoff and no second fallback.
func Retry[T any](ctx context.Context, primary, fallback Func[T], logMessage string, logger *slog.Logger) (T, error) {
	v, err := primary(ctx)
	if err == nil {
		return v, nil
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.WarnContext(ctx, logMessage, "error", err)

	return fallback(ctx)
}
