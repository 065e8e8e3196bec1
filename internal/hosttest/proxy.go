package hosttest

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/ports"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Proxy presents one capability the way a hosting container does: results are
// plain maps and slices, record keys are camelCase and binary data is a list of
// numbers.
type Proxy struct {
	backend    *Backend
	capability entities.Capability
	methods    []string
}

var _ ports.ProxyObject = (*Proxy)(nil)

// Proxy returns the proxy object of a capability, optionally without some methods
// (making it structurally incomplete).
func (b *Backend) Proxy(capability entities.Capability, without ...string) *Proxy {
	methods := []string{}
	for _, op := range wireformat.Operations(capability) {
		if !slices.Contains(without, op) {
			methods = append(methods, op)
		}
	}
	return &Proxy{backend: b, capability: capability, methods: methods}
}

func (p *Proxy) Methods() []string {
	return p.methods
}

func (p *Proxy) Call(ctx context.Context, method string, args map[string]any) (any, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	res, err := p.backend.invoke(ctx, p.capability, method, payload)
	if err != nil {
		return nil, err
	}
	if data, ok := res.([]byte); ok {
		nums := make([]any, len(data))
		for i, c := range data {
			nums[i] = float64(c)
		}
		return nums, nil
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if p.backend.isRecord(p.capability, method) {
		out = camelize(out)
	}
	return out, nil
}

// Container exposes props holding the proxies of the given capabilities (all when
// none are named).
type Container struct {
	props map[string]any
}

var _ ports.Container = (*Container)(nil)

func (c *Container) Props() map[string]any {
	return c.props
}

// Set replaces (or with a nil value removes) one props entry.
func (c *Container) Set(key string, value any) {
	if value == nil {
		delete(c.props, key)
		return
	}
	c.props[key] = value
}

// Container returns a container whose props carry the given capabilities' proxies.
func (b *Backend) Container(caps ...entities.Capability) *Container {
	if len(caps) == 0 {
		caps = entities.AllCapabilities()
	}
	props := map[string]any{}
	for _, c := range caps {
		props[string(c)] = b.Proxy(c)
	}
	return &Container{props: props}
}

func camelize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[camelKey(k)] = val
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = camelize(item)
		}
		return out
	default:
		return v
	}
}

func camelKey(k string) string {
	parts := strings.Split(k, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// FixedProxy advertises every operation of Capability and answers each call with
// Results[method], nil when absent. It stands in for a container whose proxy does
// not follow the result contract.
type FixedProxy struct {
	Results    map[string]any
	Capability entities.Capability
}

func (p FixedProxy) Methods() []string { return wireformat.Operations(p.Capability) }

func (p FixedProxy) Call(_ context.Context, method string, _ map[string]any) (any, error) {
	return p.Results[method], nil
}
