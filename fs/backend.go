package sdkfs

import (
	"context"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/internal/dispatch"
	"github.com/reglet-dev/hostcap/wireformat"
)

type backend interface {
	readText(ctx context.Context, req entities.FSPathRequest) (string, error)
	writeText(ctx context.Context, req entities.FSWriteTextRequest) error
	readBinary(ctx context.Context, req entities.FSPathRequest) ([]byte, error)
	writeBinary(ctx context.Context, req entities.FSWriteBinaryRequest) error
	removeFile(ctx context.Context, req entities.FSPathRequest) error
	createDir(ctx context.Context, req entities.FSPathRequest) error
	removeDir(ctx context.Context, req entities.FSPathRequest) error
	readDir(ctx context.Context, req entities.FSPathRequest) ([]entities.DirEntry, error)
	metadata(ctx context.Context, req entities.FSPathRequest) (entities.FileInfo, error)
	exists(ctx context.Context, req entities.FSPathRequest) (bool, error)
	copyFile(ctx context.Context, req entities.FSCopyRequest) error
	renameFile(ctx context.Context, req entities.FSCopyRequest) error
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

func (w *wireBackend) readText(ctx context.Context, req entities.FSPathRequest) (string, error) {
	var text string
	err := w.call.Call(ctx, wireformat.OpReadText, req, &text)
	return text, err
}

func (w *wireBackend) writeText(ctx context.Context, req entities.FSWriteTextRequest) error {
	return w.call.Call(ctx, wireformat.OpWriteText, req, nil)
}

func (w *wireBackend) readBinary(ctx context.Context, req entities.FSPathRequest) ([]byte, error) {
	data := []byte{}
	err := w.call.Call(ctx, wireformat.OpReadBinary, req, &data)
	return data, err
}

func (w *wireBackend) writeBinary(ctx context.Context, req entities.FSWriteBinaryRequest) error {
	return w.call.Call(ctx, wireformat.OpWriteBinary, req, nil)
}

func (w *wireBackend) removeFile(ctx context.Context, req entities.FSPathRequest) error {
	return w.call.Call(ctx, wireformat.OpRemoveFile, req, nil)
}

func (w *wireBackend) createDir(ctx context.Context, req entities.FSPathRequest) error {
	return w.call.Call(ctx, wireformat.OpCreateDir, req, nil)
}

func (w *wireBackend) removeDir(ctx context.Context, req entities.FSPathRequest) error {
	return w.call.Call(ctx, wireformat.OpRemoveDir, req, nil)
}

func (w *wireBackend) readDir(ctx context.Context, req entities.FSPathRequest) ([]entities.DirEntry, error) {
	entries := []entities.DirEntry{}
	err := w.call.Call(ctx, wireformat.OpReadDir, req, &entries)
	return entries, err
}

func (w *wireBackend) metadata(ctx context.Context, req entities.FSPathRequest) (entities.FileInfo, error) {
	var info entities.FileInfo
	err := w.call.Call(ctx, wireformat.OpMetadata, req, &info)
	return info, err
}

func (w *wireBackend) exists(ctx context.Context, req entities.FSPathRequest) (bool, error) {
	var ok bool
	err := w.call.Call(ctx, wireformat.OpExists, req, &ok)
	return ok, err
}

func (w *wireBackend) copyFile(ctx context.Context, req entities.FSCopyRequest) error {
	return w.call.Call(ctx, wireformat.OpCopyFile, req, nil)
}

func (w *wireBackend) renameFile(ctx context.Context, req entities.FSCopyRequest) error {
	return w.call.Call(ctx, wireformat.OpRenameFile, req, nil)
}

// proxyBackend calls the container's fs proxy and translates its raw results.
type proxyBackend struct {
	binding *dispatch.Binding
}

func (p *proxyBackend) do(ctx context.Context, op string, req any) error {
	_, err := p.binding.CallProxy(ctx, op, req)
	return err
}

func (p *proxyBackend) readText(ctx context.Context, req entities.FSPathRequest) (string, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpReadText, req)
	if err != nil {
		return "", err
	}
	return dispatch.As[string]("fs.read-text", raw)
}

func (p *proxyBackend) writeText(ctx context.Context, req entities.FSWriteTextRequest) error {
	return p.do(ctx, wireformat.OpWriteText, req)
}

func (p *proxyBackend) readBinary(ctx context.Context, req entities.FSPathRequest) ([]byte, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpReadBinary, req)
	if err != nil {
		return nil, err
	}
	return dispatch.Bytes(raw)
}

func (p *proxyBackend) writeBinary(ctx context.Context, req entities.FSWriteBinaryRequest) error {
	return p.do(ctx, wireformat.OpWriteBinary, req)
}

func (p *proxyBackend) removeFile(ctx context.Context, req entities.FSPathRequest) error {
	return p.do(ctx, wireformat.OpRemoveFile, req)
}

func (p *proxyBackend) createDir(ctx context.Context, req entities.FSPathRequest) error {
	return p.do(ctx, wireformat.OpCreateDir, req)
}

func (p *proxyBackend) removeDir(ctx context.Context, req entities.FSPathRequest) error {
	return p.do(ctx, wireformat.OpRemoveDir, req)
}

func (p *proxyBackend) readDir(ctx context.Context, req entities.FSPathRequest) ([]entities.DirEntry, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpReadDir, req)
	if err != nil {
		return nil, err
	}
	entries := []entities.DirEntry{}
	if raw == nil {
		return entries, nil
	}
	err = dispatch.DecodeRecords(raw, &entries)
	return entries, err
}

func (p *proxyBackend) metadata(ctx context.Context, req entities.FSPathRequest) (entities.FileInfo, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpMetadata, req)
	if err != nil {
		return entities.FileInfo{}, err
	}
	m, err := dispatch.As[map[string]any]("fs.metadata", raw)
	if err != nil {
		return entities.FileInfo{}, err
	}
	var info entities.FileInfo
	err = dispatch.Decode(dispatch.NormalizeTimestamps(dispatch.SnakeKeys(m), "created_at", "modified_at"), &info)
	return info, err
}

func (p *proxyBackend) exists(ctx context.Context, req entities.FSPathRequest) (bool, error) {
	raw, err := p.binding.CallProxy(ctx, wireformat.OpExists, req)
	if err != nil {
		return false, err
	}
	return dispatch.As[bool]("fs.exists", raw)
}

func (p *proxyBackend) copyFile(ctx context.Context, req entities.FSCopyRequest) error {
	return p.do(ctx, wireformat.OpCopyFile, req)
}

func (p *proxyBackend) renameFile(ctx context.Context, req entities.FSCopyRequest) error {
	return p.do(ctx, wireformat.OpRenameFile, req)
}
