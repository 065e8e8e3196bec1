package ports

import "context"

// Container is the hosted-proxy backend: an enclosing application (e.g. a
// micro-frontend host) that exposes capability proxies through its props.
type Container interface {
	// Props returns the exposed props object. Each capability is looked up under its
	// own key ("sql", "store", "fs", "apps"). A nil map means the container exposes
	// nothing.
	Props() map[string]any
}

// ProxyObject is one capability's sub-object inside a container's props.
// Methods are named like the native operations ("execute", "read-text", ...).
type ProxyObject interface {
	// Methods lists the operation names this proxy implements. A proxy missing any
	// operation its capability requires is treated as structurally incomplete.
	Methods() []string

	// Call invokes one operation. The raw result uses the container's own shapes
	// (maps, slices, camelCase keys); capability clients translate it. A returned
	// error is surfaced to callers unchanged.
	Call(ctx context.Context, method string, args map[string]any) (any, error)
}
