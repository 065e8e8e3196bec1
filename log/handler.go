// Package log builds the slog loggers used across hostcap, and a handler that
// forwards records to a native host so guest logs appear in the host's output.
package log

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/reglet-dev/hostcap/domain/ports"
)

// FunctionName is the native function HostHandler calls for every record.
const FunctionName = "log.message"

// New returns a text logger writing to w (stderr when nil). Verbose enables DEBUG.
func New(verbose bool, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// HostHandler implements slog.Handler by sending each record to a native host.
type HostHandler struct {
	host  ports.NativeHost
	attrs []LogAttrWire
	group string
	opts  handlerConfig
}

// HandlerOption configures the HostHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Level
	addSource bool
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
// Records below this level are dropped before reaching the host.
func WithLevel(level slog.Level) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file:line) as a "source" attr.
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// NewHostHandler creates a HostHandler bound to host.
func NewHostHandler(host ports.NativeHost, opts ...HandlerOption) *HostHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &HostHandler{host: host, opts: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *HostHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level
}

// Handle serializes record and invokes FunctionName. Delivery failures are dropped;
// logging must never fail the caller.
func (h *HostHandler) Handle(ctx context.Context, record slog.Record) error {
	msg := LogMessageWire{
		Level:     record.Level.String(),
		Message:   record.Message,
		Timestamp: record.Time,
		Attrs:     append([]LogAttrWire(nil), h.attrs...),
	}
	if h.opts.addSource && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		msg.Attrs = append(msg.Attrs, LogAttrWire{Key: "source", Type: "string", Value: frame.File + ":" + itoa(frame.Line)})
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, h.qualify(toLogAttrWire(attr)))
		return true
	})

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil
	}
	_, _ = h.host.Invoke(ctx, FunctionName, payload)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *HostHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]LogAttrWire(nil), h.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, h.qualify(toLogAttrWire(a)))
	}
	return &next
}

// WithGroup returns a handler that prefixes subsequent attr keys with name.
func (h *HostHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = h.qualifyKey(name)
	return &next
}

func (h *HostHandler) qualifyKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *HostHandler) qualify(w LogAttrWire) LogAttrWire {
	w.Key = h.qualifyKey(w.Key)
	return w
}
