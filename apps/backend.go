package apps

import (
	"context"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
	"github.com/reglet-dev/hostcap/wireformat"
)

type backend interface {
	list(ctx context.Context) ([]entities.AppInfo, error)
	get(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error)
	register(ctx context.Context, m entities.AppManifest) (entities.AppInfo, error)
	update(ctx context.Context, req entities.AppUpdateRequest) (entities.AppInfo, error)
	unregister(ctx context.Context, req entities.AppIDRequest) error
	activate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error)
	deactivate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error)
	bulk(ctx context.Context, req entities.BulkRequest) (entities.BulkResult, error)
	health(ctx context.Context, req entities.AppIDRequest) (entities.AppHealth, error)
	stats(ctx context.Context) (entities.RegistryStats, error)
	events(ctx context.Context, q entities.EventQuery) ([]entities.AppEvent, error)
}

var (
	_ backend = (*nativeBackend)(nil)
	_ backend = (*proxyBackend)(nil)
	_ backend = (*remoteBackend)(nil)
)

type wireBackend struct {
	call dispatch.Caller
}

type nativeBackend struct{ wireBackend }

type remoteBackend struct{ wireBackend }

func (w *wireBackend) app(ctx context.Context, op string, req any) (entities.AppInfo, error) {
	var app entities.AppInfo
	err := w.call.Call(ctx, op, req, &app)
	return app, err
}

func (w *wireBackend) list(ctx context.Context) ([]entities.AppInfo, error) {
	apps := []entities.AppInfo{}
	err := w.call.Call(ctx, wireformat.OpList, nil, &apps)
	return apps, err
}

func (w *wireBackend) get(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return w.app(ctx, wireformat.OpGet, req)
}

func (w *wireBackend) register(ctx context.Context, m entities.AppManifest) (entities.AppInfo, error) {
	return w.app(ctx, wireformat.OpRegister, m)
}

func (w *wireBackend) update(ctx context.Context, req entities.AppUpdateRequest) (entities.AppInfo, error) {
	return w.app(ctx, wireformat.OpUpdate, req)
}

func (w *wireBackend) unregister(ctx context.Context, req entities.AppIDRequest) error {
	return w.call.Call(ctx, wireformat.OpUnregister, req, nil)
}

func (w *wireBackend) activate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return w.app(ctx, wireformat.OpActivate, req)
}

func (w *wireBackend) deactivate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return w.app(ctx, wireformat.OpDeactivate, req)
}

func (w *wireBackend) bulk(ctx context.Context, req entities.BulkRequest) (entities.BulkResult, error) {
	var res entities.BulkResult
	err := w.call.Call(ctx, wireformat.OpBulk, req, &res)
	return res, err
}

func (w *wireBackend) health(ctx context.Context, req entities.AppIDRequest) (entities.AppHealth, error) {
	var h entities.AppHealth
	err := w.call.Call(ctx, wireformat.OpHealth, req, &h)
	return h, err
}

func (w *wireBackend) stats(ctx context.Context) (entities.RegistryStats, error) {
	var s entities.RegistryStats
	err := w.call.Call(ctx, wireformat.OpStats, nil, &s)
	return s, err
}

func (w *wireBackend) events(ctx context.Context, q entities.EventQuery) ([]entities.AppEvent, error) {
	events := []entities.AppEvent{}
	err := w.call.Call(ctx, wireformat.OpEvents, q, &events)
	return events, err
}

// proxyBackend calls the container's registry proxy. Record keys come back
// camelCase and timestamps may be epoch milliseconds.
type proxyBackend struct {
	binding *dispatch.Binding
}

var timestampKeys = []string{"registered_at", "updated_at", "checked_at", "timestamp"}

func record(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		return dispatch.NormalizeTimestamps(dispatch.SnakeKeys(m), timestampKeys...)
	}
	return raw
}

func records(raw any) any {
	items, ok := raw.([]any)
	if !ok {
		return raw
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = record(item)
	}
	return out
}

func (p *proxyBackend) decode(ctx context.Context, op string, req, out any) error {
	raw, err := p.binding.CallProxy(ctx, op, req)
	if err != nil {
		return err
	}
	if _, ok := raw.([]any); ok {
		return dispatch.Decode(records(raw), out)
	}
	return dispatch.DecodeRecord(record(raw), out)
}

func (p *proxyBackend) app(ctx context.Context, op string, req any) (entities.AppInfo, error) {
	var app entities.AppInfo
	err := p.decode(ctx, op, req, &app)
	return app, err
}

func (p *proxyBackend) list(ctx context.Context) ([]entities.AppInfo, error) {
	apps := []entities.AppInfo{}
	err := p.decode(ctx, wireformat.OpList, nil, &apps)
	return apps, err
}

func (p *proxyBackend) get(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return p.app(ctx, wireformat.OpGet, req)
}

func (p *proxyBackend) register(ctx context.Context, m entities.AppManifest) (entities.AppInfo, error) {
	return p.app(ctx, wireformat.OpRegister, m)
}

func (p *proxyBackend) update(ctx context.Context, req entities.AppUpdateRequest) (entities.AppInfo, error) {
	return p.app(ctx, wireformat.OpUpdate, req)
}

func (p *proxyBackend) unregister(ctx context.Context, req entities.AppIDRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpUnregister, req)
	return err
}

func (p *proxyBackend) activate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return p.app(ctx, wireformat.OpActivate, req)
}

func (p *proxyBackend) deactivate(ctx context.Context, req entities.AppIDRequest) (entities.AppInfo, error) {
	return p.app(ctx, wireformat.OpDeactivate, req)
}

func (p *proxyBackend) bulk(ctx context.Context, req entities.BulkRequest) (entities.BulkResult, error) {
	var res entities.BulkResult
	err := p.decode(ctx, wireformat.OpBulk, req, &res)
	return res, err
}

func (p *proxyBackend) health(ctx context.Context, req entities.AppIDRequest) (entities.AppHealth, error) {
	var h entities.AppHealth
	err := p.decode(ctx, wireformat.OpHealth, req, &h)
	return h, err
}

func (p *proxyBackend) stats(ctx context.Context) (entities.RegistryStats, error) {
	var s entities.RegistryStats
	err := p.decode(ctx, wireformat.OpStats, nil, &s)
	return s, err
}

func (p *proxyBackend) events(ctx context.Context, q entities.EventQuery) ([]entities.AppEvent, error) {
	events := []entities.AppEvent{}
	err := p.decode(ctx, wireformat.OpEvents, q, &events)
	return events, err
}
