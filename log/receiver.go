package log

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Receive returns the host side of FunctionName: it decodes a LogMessageWire and
// re-emits it on logger with its original level and attributes. Register it in a
// hostfuncs registry under FunctionName.
func Receive(logger *slog.Logger) func(context.Context, []byte) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var msg LogMessageWire
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, err
		}

		var level slog.Level
		if err := level.UnmarshalText([]byte(msg.Level)); err != nil {
			level = slog.LevelInfo
		}

		args := make([]any, 0, len(msg.Attrs)+1)
		args = append(args, slog.String("origin", "guest"))
		for _, a := range msg.Attrs {
			args = append(args, slog.String(a.Key, a.Value))
		}
		logger.Log(ctx, level, msg.Message, args...)
		return []byte(`{"result":null}`), nil
	}
}
