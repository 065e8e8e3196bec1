// Package wazero provides adapters for registering SDK host functions with the wazero runtime.
package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/hostfuncs"
	"github.com/reglet-dev/hostcap/internal/abi"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Host module layout expected by the guest adapter.
const (
	ModuleName = "hostcap_host"
	FuncHas    = "has"
	FuncInvoke = "invoke"
)

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// Logger receives boundary failures. Defaults to slog.Default().
	Logger *slog.Logger

	// ModuleName is the host module name (default: "hostcap_host").
	ModuleName string

	// Capabilities limits the capabilities guests may reach. Empty allows all.
	Capabilities []entities.Capability

	// CustomHandlers allows adding additional wazero-specific handlers that
	// don't fit the has/invoke pattern.
	CustomHandlers []CustomHandler

	// MaxRequestSize limits the size of incoming requests from guest memory.
	// Default is 1MB.
	MaxRequestSize uint32
}

// CustomHandler represents a custom wazero handler exported next to has/invoke.
type CustomHandler struct {
	// Name is the exported function name.
	Name string

	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name (default: "hostcap_host").
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the logger for boundary failures.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = l
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		Logger:         slog.Default(),
		ModuleName:     ModuleName,
		MaxRequestSize: hostfuncs.DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime instantiates the host module that backs guest-side native
// mode. It exports:
//
//   - has(name i64) i32: 1 when host implements name and the name's capability is
//     allowed
//   - invoke(name i64, payload i64) i64: runs the function and returns its reply
//
// Arguments and results are packed pointer/length pairs in guest memory. Replies
// are written into buffers obtained from the guest's "allocate" export.
//
// Example:
//
//	registry, _ := hostfuncs.NewRegistry(hostfuncs.WithBundle(bundle))
//	err := wazero.RegisterWithRuntime(ctx, runtime, registry,
//	    wazero.WithCapabilities(entities.CapabilityStore),
//	)
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, host ports.NativeHost, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	d := newDispatcher(host, cfg)

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(d.hasFunc),
			[]api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI32}).
		Export(FuncHas)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(d.invokeFunc),
			[]api.ValueType{api.ValueTypeI64, api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
		Export(FuncInvoke)

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// dispatcher holds the runtime-independent part of the host module.
type dispatcher struct {
	host   ports.NativeHost
	filter capabilityFilter
	logger *slog.Logger
	max    uint32
}

func newDispatcher(host ports.NativeHost, cfg AdapterConfig) *dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatcher{host: host, filter: newCapabilityFilter(cfg.Capabilities), logger: logger, max: cfg.MaxRequestSize}
}

func (d *dispatcher) has(name string) bool {
	return d.filter.allows(name) && d.host.Has(name)
}

// invoke always returns a reply; failures become ErrorResponse JSON.
func (d *dispatcher) invoke(ctx context.Context, guest, name string, payload []byte) []byte {
	if !d.filter.allows(name) {
		denied := &CapabilityDeniedError{Guest: guest, Function: name}
		d.logger.WarnContext(ctx, "wazero: capability denied", "guest", guest, "function", name)
		return hostfuncs.ErrorResponse{Error: "CAPABILITY_DENIED", Message: denied.Error(), Code: 403}.ToJSON()
	}
	if uint32(len(payload)) > d.max { //nolint:gosec // G115: guest buffers are 32-bit sized
		msg := fmt.Sprintf("request size %d exceeds maximum %d bytes", len(payload), d.max)
		d.logger.ErrorContext(ctx, "wazero: "+msg, "function", name)
		return hostfuncs.NewValidationError(msg).ToJSON()
	}

	reply, err := d.host.Invoke(WithGuestName(ctx, guest), name, payload)
	if err != nil {
		d.logger.ErrorContext(ctx, "wazero: handler invocation failed", "function", name, "error", err)
		return hostfuncs.NewInternalError(err.Error()).ToJSON()
	}
	return reply
}

func (d *dispatcher) hasFunc(ctx context.Context, mod api.Module, stack []uint64) {
	name, err := readGuest(mod, stack[0], d.max)
	if err != nil {
		d.logger.ErrorContext(ctx, "wazero: "+err.Error(), "export", FuncHas)
		stack[0] = 0
		return
	}
	if d.has(string(name)) {
		stack[0] = 1
	} else {
		stack[0] = 0
	}
}

func (d *dispatcher) invokeFunc(ctx context.Context, mod api.Module, stack []uint64) {
	name, err := readGuest(mod, stack[0], d.max)
	if err != nil {
		d.logger.ErrorContext(ctx, "wazero: "+err.Error(), "export", FuncInvoke)
		stack[0] = writeResponse(ctx, d.logger, mod, hostfuncs.NewInternalError(err.Error()).ToJSON())
		return
	}
	payload, err := readGuest(mod, stack[1], ^uint32(0))
	if err != nil {
		d.logger.ErrorContext(ctx, "wazero: "+err.Error(), "function", string(name))
		stack[0] = writeResponse(ctx, d.logger, mod, hostfuncs.NewInternalError(err.Error()).ToJSON())
		return
	}

	reply := d.invoke(ctx, GetGuestName(ctx, mod), string(name), payload)
	stack[0] = writeResponse(ctx, d.logger, mod, reply)
}

// readGuest copies the buffer packed refers to out of guest memory.
func readGuest(mod api.Module, packed uint64, limit uint32) ([]byte, error) {
	if !abi.Valid(packed) {
		return nil, fmt.Errorf("invalid packed buffer %#x", packed)
	}
	ptr, length := abi.Split(packed)
	if length == 0 {
		return []byte{}, nil
	}
	if length > limit {
		return nil, fmt.Errorf("buffer size %d exceeds maximum %d bytes", length, limit)
	}
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("failed to read %d bytes at %#x from guest memory", length, ptr)
	}
	return append([]byte(nil), data...), nil
}

// writeResponse allocates memory in the guest and writes data to it.
// Returns packed ptr+len or 0 on failure.
func writeResponse(ctx context.Context, logger *slog.Logger, mod api.Module, data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		logger.ErrorContext(ctx, "wazero: guest module missing 'allocate' export")
		return 0
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		logger.ErrorContext(ctx, "wazero: failed to call guest allocate", "error", err)
		return 0
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		logger.ErrorContext(ctx, "wazero: failed to write response to guest memory")
		return 0
	}
	return abi.PackPtrLen(ptr, uint32(len(data))) //nolint:gosec // G115: Data length is bounded by guest memory
}
