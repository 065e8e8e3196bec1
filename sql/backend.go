package sdksql

import (
	"context"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
	"github.com/reglet-dev/hostcap/wireformat"
)

type backend interface {
	load(ctx context.Context, req entities.SQLLoadRequest) (string, error)
	execute(ctx context.Context, req entities.SQLQueryRequest) (entities.ExecResult, error)
	selectRows(ctx context.Context, req entities.SQLQueryRequest) ([]entities.Row, error)
	close(ctx context.Context, req entities.SQLCloseRequest) error
	connections(ctx context.Context) ([]string, error)
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

func (w *wireBackend) load(ctx context.Context, req entities.SQLLoadRequest) (string, error) {
	var resp entities.SQLLoadResponse
	err := w.call.Call(ctx, wireformat.OpLoad, req, &resp)
	return resp.ConnectionID, err
}

func (w *wireBackend) execute(ctx context.Context, req entities.SQLQueryRequest) (entities.ExecResult, error) {
	var res entities.ExecResult
	err := w.call.Call(ctx, wireformat.OpExecute, req, &res)
	return res, err
}

func (w *wireBackend) selectRows(ctx context.Context, req entities.SQLQueryRequest) ([]entities.Row, error) {
	var rows []entities.Row
	err := w.call.Call(ctx, wireformat.OpSelect, req, &rows)
	return rows, err
}

func (w *wireBackend) close(ctx context.Context, req entities.SQLCloseRequest) error {
	return w.call.Call(ctx, wireformat.OpClose, req, nil)
}

func (w *wireBackend) connections(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := w.call.Call(ctx, wireformat.OpConnections, nil, &ids)
	return ids, err
}

// proxyBackend calls the container's sql proxy. Row values pass through untouched;
// only the result records are renamed.
type proxyBackend struct {
	binding *dispatch.Binding
}

func (p *proxyBackend) load(ctx context.Context, req entities.SQLLoadRequest) (string, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpLoad, req)
	if err != nil {
		return "", err
	}
	return dispatch.SessionID(raw, "connection_id")
}

func (p *proxyBackend) execute(ctx context.Context, req entities.SQLQueryRequest) (entities.ExecResult, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpExecute, req)
	if err != nil {
		return entities.ExecResult{}, err
	}
	var res entities.ExecResult
	err = dispatch.DecodeRecord(raw, &res)
	return res, err
}

func (p *proxyBackend) selectRows(ctx context.Context, req entities.SQLQueryRequest) ([]entities.Row, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpSelect, req)
	if err != nil || raw == nil {
		return nil, err
	}
	var rows []entities.Row
	err = dispatch.Decode(raw, &rows)
	return rows, err
}

func (p *proxyBackend) close(ctx context.Context, req entities.SQLCloseRequest) error {
	_, err := p.binding.CallProxy(ctx, wireformat.OpClose, req)
	return err
}

func (p *proxyBackend) connections(ctx context.Context) ([]string, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpConnections, nil)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if raw == nil {
		return ids, nil
	}
	err = dispatch.Decode(raw, &ids)
	return ids, err
}
