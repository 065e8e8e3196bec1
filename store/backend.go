package store

import (
	"context"
	"encoding/json"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
	"github.com/reglet-dev/hostcap/wireformat"
)

type backend interface {
	load(ctx context.Context, filename string) (string, error)
	set(ctx context.Context, req entities.StoreRequest) error
	get(ctx context.Context, req entities.StoreRequest) (entities.StoreGetResponse, error)
	delete(ctx context.Context, req entities.StoreRequest) (bool, error)
	clear(ctx context.Context, req entities.StoreRequest) error
	keys(ctx context.Context, req entities.StoreRequest) ([]string, error)
	values(ctx context.Context, req entities.StoreRequest) ([]json.RawMessage, error)
	entries(ctx context.Context, req entities.StoreRequest) ([]entities.StoreEntry, error)
	length(ctx context.Context, req entities.StoreRequest) (int, error)
	save(ctx context.Context, req entities.StoreRequest) error
	reload(ctx context.Context, req entities.StoreRequest) error
	list(ctx context.Context) ([]string, error)
}

var (
	_ backend = (*nativeBackend)(nil)
	_ backend = (*proxyBackend)(nil)
	_ backend = (*remoteBackend)(nil)
)

// wireBackend speaks the JSON wire contract shared by the native host and the
// remote bridge.
type wireBackend struct {
	call dispatch.Caller
}

type nativeBackend struct{ wireBackend }

type remoteBackend struct{ wireBackend }

func (w *wireBackend) load(ctx context.Context, filename string) (string, error) {
	var resp entities.StoreLoadResponse
	err := w.call.Call(ctx, wireformat.OpLoad, entities.StoreLoadRequest{Filename: filename}, &resp)
	return resp.StoreID, err
}

func (w *wireBackend) set(ctx context.Context, req entities.StoreRequest) error {
	return w.call.Call(ctx, wireformat.OpSet, req, nil)
}

func (w *wireBackend) get(ctx context.Context, req entities.StoreRequest) (entities.StoreGetResponse, error) {
	var resp entities.StoreGetResponse
	err := w.call.Call(ctx, wireformat.OpGet, req, &resp)
	return resp, err
}

func (w *wireBackend) delete(ctx context.Context, req entities.StoreRequest) (bool, error) {
	var deleted bool
	err := w.call.Call(ctx, wireformat.OpDelete, req, &deleted)
	return deleted, err
}

func (w *wireBackend) clear(ctx context.Context, req entities.StoreRequest) error {
	return w.call.Call(ctx, wireformat.OpClear, req, nil)
}

func (w *wireBackend) keys(ctx context.Context, req entities.StoreRequest) ([]string, error) {
	keys := []string{}
	err := w.call.Call(ctx, wireformat.OpKeys, req, &keys)
	return keys, err
}

func (w *wireBackend) values(ctx context.Context, req entities.StoreRequest) ([]json.RawMessage, error) {
	var values []json.RawMessage
	err := w.call.Call(ctx, wireformat.OpValues, req, &values)
	return values, err
}

func (w *wireBackend) entries(ctx context.Context, req entities.StoreRequest) ([]entities.StoreEntry, error) {
	var entries []entities.StoreEntry
	err := w.call.Call(ctx, wireformat.OpEntries, req, &entries)
	return entries, err
}

func (w *wireBackend) length(ctx context.Context, req entities.StoreRequest) (int, error) {
	var n int
	err := w.call.Call(ctx, wireformat.OpLength, req, &n)
	return n, err
}

func (w *wireBackend) save(ctx context.Context, req entities.StoreRequest) error {
	return w.call.Call(ctx, wireformat.OpSave, req, nil)
}

func (w *wireBackend) reload(ctx context.Context, req entities.StoreRequest) error {
	return w.call.Call(ctx, wireformat.OpReload, req, nil)
}

func (w *wireBackend) list(ctx context.Context) ([]string, error) {
	files := []string{}
	err := w.call.Call(ctx, wireformat.OpList, nil, &files)
	return files, err
}

// proxyBackend calls the container's store proxy and translates its raw results.
type proxyBackend struct {
	binding *dispatch.Binding
}

func (p *proxyBackend) load(ctx context.Context, filename string) (string, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpLoad, entities.StoreLoadRequest{Filename: filename})
	if err != nil {
		return "", err
	}
	return dispatch.SessionID(raw, "store_id")
}

func (p *proxyBackend) set(ctx context.Context, req entities.StoreRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpSet, req)
	return err
}

func (p *proxyBackend) get(ctx context.Context, req entities.StoreRequest) (entities.StoreGetResponse, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpGet, req)
	if err != nil {
		return entities.StoreGetResponse{}, err
	}
	m, err := dispatch.As[map[string]any]("store.get", raw)
	if err != nil {
		return entities.StoreGetResponse{}, err
	}
	found, err := dispatch.As[bool]("store.get found", m["found"])
	if err != nil {
		return entities.StoreGetResponse{}, err
	}
	if !found {
		return entities.StoreGetResponse{}, nil
	}
	value, err := json.Marshal(m["value"])
	if err != nil {
		return entities.StoreGetResponse{}, err
	}
	return entities.StoreGetResponse{Found: true, Value: value}, nil
}

func (p *proxyBackend) delete(ctx context.Context, req entities.StoreRequest) (bool, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpDelete, req)
	if err != nil {
		return false, err
	}
	return dispatch.As[bool]("store.delete", raw)
}

func (p *proxyBackend) clear(ctx context.Context, req entities.StoreRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpClear, req)
	return err
}

func (p *proxyBackend) keys(ctx context.Context, req entities.StoreRequest) ([]string, error) {
	keys := []string{}
	err := p.decode(ctx, wireformat.OpKeys, req, &keys)
	return keys, err
}

func (p *proxyBackend) values(ctx context.Context, req entities.StoreRequest) ([]json.RawMessage, error) {
	var values []json.RawMessage
	err := p.decode(ctx, wireformat.OpValues, req, &values)
	return values, err
}

func (p *proxyBackend) entries(ctx context.Context, req entities.StoreRequest) ([]entities.StoreEntry, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpEntries, req)
	if err != nil {
		return nil, err
	}
	var entries []entities.StoreEntry
	err = dispatch.DecodeRecords(raw, &entries)
	return entries, err
}

func (p *proxyBackend) length(ctx context.Context, req entities.StoreRequest) (int, error) {
	var n int
	err := p.decode(ctx, wireformat.OpLength, req, &n)
	return n, err
}

func (p *proxyBackend) save(ctx context.Context, req entities.StoreRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpSave, req)
	return err
}

func (p *proxyBackend) reload(ctx context.Context, req entities.StoreRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpReload, req)
	return err
}

func (p *proxyBackend) list(ctx context.Context) ([]string, error) {
	files := []string{}
	err := p.decode(ctx, wireformat.OpList, nil, &files)
	return files, err
}

func (p *proxyBackend) decode(ctx context.Context, op string, req, out any) error {
	raw, err := p.binding.CallProxy(ctx, op, req)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	return dispatch.Decode(raw, out)
}
