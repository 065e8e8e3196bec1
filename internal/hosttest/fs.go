package hosttest

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

type memFile struct {
	created  time.Time
	modified time.Time
	data     []byte
	isDir    bool
}

func clean(p string) string {
	return path.Clean("/" + p)
}

func (b *Backend) fsOps() map[string]opSpec {
	return map[string]opSpec{
		wireformat.OpReadText:    {fn: typed(b.fsReadText)},
		wireformat.OpWriteText:   {fn: typed(b.fsWriteText)},
		wireformat.OpReadBinary:  {fn: typed(b.fsReadBinary)},
		wireformat.OpWriteBinary: {fn: typed(b.fsWriteBinary)},
		wireformat.OpRemoveFile:  {fn: typed(b.fsRemoveFile)},
		wireformat.OpCreateDir:   {fn: typed(b.fsCreateDir)},
		wireformat.OpRemoveDir:   {fn: typed(b.fsRemoveDir)},
		wireformat.OpReadDir:     {fn: typed(b.fsReadDir), record: true},
		wireformat.OpMetadata:    {fn: typed(b.fsMetadata), record: true},
		wireformat.OpExists:      {fn: typed(b.fsExists)},
		wireformat.OpCopyFile:    {fn: typed(b.fsCopyFile)},
		wireformat.OpRenameFile:  {fn: typed(b.fsRenameFile)},
	}
}

// WriteFile seeds a file, creating its parent directories.
func (b *Backend) WriteFile(p string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p = clean(p)
	b.mkdirAll(path.Dir(p))
	b.putFile(p, data)
}

// ReadFile returns a file's contents and whether it exists.
func (b *Backend) ReadFile(p string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.files[clean(p)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

func (b *Backend) mkdirAll(dir string) {
	for d := dir; ; d = path.Dir(d) {
		if _, ok := b.dirs[d]; !ok {
			now := b.clock.Now()
			b.dirs[d] = &memFile{isDir: true, created: now, modified: now}
		}
		if d == "/" {
			return
		}
	}
}

func (b *Backend) putFile(p string, data []byte) {
	now := b.clock.Now()
	if f, ok := b.files[p]; ok {
		f.data = append([]byte(nil), data...)
		f.modified = now
		return
	}
	b.files[p] = &memFile{data: append([]byte(nil), data...), created: now, modified: now}
}

func (b *Backend) writable(p string) error {
	if _, ok := b.dirs[p]; ok {
		return badRequest("is a directory: " + p)
	}
	if _, ok := b.dirs[path.Dir(p)]; !ok {
		return notFound("parent directory does not exist: " + path.Dir(p))
	}
	return nil
}

func (b *Backend) file(p string) (*memFile, error) {
	f, ok := b.files[p]
	if !ok {
		return nil, notFound("no such file: " + p)
	}
	return f, nil
}

func (b *Backend) fsReadText(req entities.FSPathRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.file(clean(req.Path))
	if err != nil {
		return "", err
	}
	return string(f.data), nil
}

func (b *Backend) fsWriteText(req entities.FSWriteTextRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if err := b.writable(p); err != nil {
		return nil, err
	}
	b.putFile(p, []byte(req.Contents))
	return nil, nil
}

func (b *Backend) fsReadBinary(req entities.FSPathRequest) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, err := b.file(clean(req.Path))
	if err != nil {
		return nil, err
	}
	return append([]byte{}, f.data...), nil
}

func (b *Backend) fsWriteBinary(req entities.FSWriteBinaryRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if err := b.writable(p); err != nil {
		return nil, err
	}
	b.putFile(p, req.Data)
	return nil, nil
}

func (b *Backend) fsRemoveFile(req entities.FSPathRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if _, err := b.file(p); err != nil {
		return nil, err
	}
	delete(b.files, p)
	return nil, nil
}

func (b *Backend) fsCreateDir(req entities.FSPathRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if _, ok := b.files[p]; ok {
		return nil, conflict("file exists: " + p)
	}
	if req.Recursive {
		b.mkdirAll(p)
		return nil, nil
	}
	if _, ok := b.dirs[p]; ok {
		return nil, conflict("directory exists: " + p)
	}
	if _, ok := b.dirs[path.Dir(p)]; !ok {
		return nil, notFound("parent directory does not exist: " + path.Dir(p))
	}
	now := b.clock.Now()
	b.dirs[p] = &memFile{isDir: true, created: now, modified: now}
	return nil, nil
}

func (b *Backend) children(dir string) []string {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	var out []string
	for p := range b.files {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	for p := range b.dirs {
		if p != dir && strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func (b *Backend) fsRemoveDir(req entities.FSPathRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if _, ok := b.dirs[p]; !ok || p == "/" {
		return nil, notFound("no such directory: " + p)
	}
	kids := b.children(p)
	if len(kids) > 0 && !req.Recursive {
		return nil, conflict("directory not empty: " + p)
	}
	for _, k := range kids {
		delete(b.files, k)
		delete(b.dirs, k)
	}
	delete(b.dirs, p)
	return nil, nil
}

func (b *Backend) fsReadDir(req entities.FSPathRequest) ([]entities.DirEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	if _, ok := b.dirs[p]; !ok {
		return nil, notFound("no such directory: " + p)
	}
	entries := []entities.DirEntry{}
	for _, k := range b.children(p) {
		if path.Dir(k) != p {
			continue
		}
		_, isDir := b.dirs[k]
		entries = append(entries, entities.DirEntry{Name: path.Base(k), IsDir: isDir, IsFile: !isDir})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (b *Backend) fsMetadata(req entities.FSPathRequest) (entities.FileInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	f, ok := b.files[p]
	if !ok {
		if f, ok = b.dirs[p]; !ok {
			return entities.FileInfo{}, notFound("no such file or directory: " + p)
		}
	}
	created, modified := f.created.UTC(), f.modified.UTC()
	return entities.FileInfo{
		Size:       int64(len(f.data)),
		IsDir:      f.isDir,
		IsFile:     !f.isDir,
		CreatedAt:  &created,
		ModifiedAt: &modified,
	}, nil
}

func (b *Backend) fsExists(req entities.FSPathRequest) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := clean(req.Path)
	_, isFile := b.files[p]
	_, isDir := b.dirs[p]
	return isFile || isDir, nil
}

func (b *Backend) fsCopyFile(req entities.FSCopyRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, to := clean(req.From), clean(req.To)
	f, err := b.file(from)
	if err != nil {
		return nil, err
	}
	if err := b.writable(to); err != nil {
		return nil, err
	}
	b.putFile(to, f.data)
	return nil, nil
}

func (b *Backend) fsRenameFile(req entities.FSCopyRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	from, to := clean(req.From), clean(req.To)
	f, err := b.file(from)
	if err != nil {
		return nil, err
	}
	if err := b.writable(to); err != nil {
		return nil, err
	}
	delete(b.files, from)
	b.files[to] = f
	return nil, nil
}
