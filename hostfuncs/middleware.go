package hostfuncs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/reglet-dev/hostcap/wireformat"
)

// Middleware wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware converts panics in a handler into an INTERNAL_ERROR reply
// instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs every invocation at DEBUG level, and failures (Go errors
// and error replies) at WARN, tagged with the function and its capability.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName, capability := "unknown", "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName, capability = hc.FunctionName(), hc.Capability()
			}
			start := time.Now()
			resp, err := next(ctx, payload)
			if err != nil {
				logger.WarnContext(ctx, "hostfuncs: function failed",
					"function", funcName, "capability", capability, "error", err)
				return resp, err
			}
			var reply wireformat.NativeReply
			if json.Unmarshal(resp, &reply) == nil && reply.Failed() {
				logger.WarnContext(ctx, "hostfuncs: function returned an error",
					"function", funcName, "capability", capability, "code", reply.Error, "message", reply.Message)
				return resp, nil
			}
			logger.DebugContext(ctx, "hostfuncs: function completed",
				"function", funcName, "capability", capability,
				"duration", time.Since(start), "response_bytes", len(resp))
			return resp, nil
		}
	}
}
