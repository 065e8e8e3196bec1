// Package hosttest provides an in-memory implementation of all four capabilities
// and exposes it three ways: as a native host (hostfuncs.HandlerRegistry), as
// container proxy objects, and as a remote-bridge HTTP server. Because the three
// views share one Backend, a test can run the same operations in every mode and
// compare results.
package hosttest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Backend is the shared in-memory state. All methods are safe for concurrent use.
type Backend struct {
	clock    clock.Clock
	logger   *slog.Logger
	failures map[string]error
	calls    map[string]int

	sqlConns   map[string]string // id -> connection string
	sqlRows    map[string][]entities.Row
	sqlExecLog []string
	lastInsert int64

	stores     map[string]*memStore // id -> store
	storeFiles map[string]string    // filename -> id

	files map[string]*memFile
	dirs  map[string]*memFile

	apps   map[string]*entities.AppInfo
	events []entities.AppEvent

	mu      sync.Mutex
	seq     int
	healthy bool
	checks  int
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock sets the clock used for timestamps. Defaults to a mock clock at the
// Unix epoch, so timestamps are deterministic.
func WithClock(c clock.Clock) Option {
	return func(b *Backend) { b.clock = c }
}

// WithLogger sets the logger of the native view's logging middleware. Defaults to
// discarding.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates an empty backend whose health endpoint reports healthy.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		clock:      clock.NewMock(),
		logger:     slog.New(slog.DiscardHandler),
		failures:   map[string]error{},
		calls:      map[string]int{},
		sqlConns:   map[string]string{},
		sqlRows:    map[string][]entities.Row{},
		stores:     map[string]*memStore{},
		storeFiles: map[string]string{},
		files:      map[string]*memFile{},
		dirs:       map[string]*memFile{"/": {isDir: true}},
		apps:       map[string]*entities.AppInfo{},
		healthy:    true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Fail makes every call of capability.op return err until cleared with a nil err.
func (b *Backend) Fail(capability entities.Capability, op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	name := wireformat.NativeFunction(capability, op)
	if err == nil {
		delete(b.failures, name)
		return
	}
	b.failures[name] = err
}

// Calls returns how many times capability.op was invoked, through any view.
func (b *Backend) Calls(capability entities.Capability, op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[wireformat.NativeFunction(capability, op)]
}

// SetHealthy controls the HTTP health endpoint.
func (b *Backend) SetHealthy(healthy bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.healthy = healthy
}

// HealthChecks returns how many health requests the HTTP view has served.
func (b *Backend) HealthChecks() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.checks
}

// healthCheck counts one health request and reports the configured health.
func (b *Backend) healthCheck() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checks++
	return b.healthy
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

// opFunc runs one operation on a JSON request.
type opFunc func(ctx context.Context, payload []byte) (any, error)

// opSpec describes how a view presents one operation. Record results are objects
// with fixed fields; proxies present their keys in camelCase.
type opSpec struct {
	fn     opFunc
	record bool
}

func typed[Req any, Resp any](fn func(Req) (Resp, error)) opFunc {
	return func(ctx context.Context, payload []byte) (any, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, badRequest(fmt.Sprintf("invalid request: %v", err))
			}
		}
		return fn(req)
	}
}

func (b *Backend) operations() map[entities.Capability]map[string]opSpec {
	return map[entities.Capability]map[string]opSpec{
		entities.CapabilitySQL:   b.sqlOps(),
		entities.CapabilityStore: b.storeOps(),
		entities.CapabilityFS:    b.fsOps(),
		entities.CapabilityApps:  b.appsOps(),
	}
}

// invoke runs one operation with failure injection and call counting.
func (b *Backend) invoke(ctx context.Context, capability entities.Capability, op string, payload []byte) (any, error) {
	entry, ok := b.operations()[capability][op]
	if !ok {
		return nil, notFound(fmt.Sprintf("unknown operation %s.%s", capability, op))
	}

	name := wireformat.NativeFunction(capability, op)
	b.mu.Lock()
	b.calls[name]++
	injected := b.failures[name]
	b.mu.Unlock()
	if injected != nil {
		return nil, injected
	}

	return entry.fn(ctx, payload)
}

func (b *Backend) isRecord(capability entities.Capability, op string) bool {
	return b.operations()[capability][op].record
}
