package hosttest

import (
	"encoding/json"
	"maps"
	"sort"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

type memStore struct {
	data     map[string]json.RawMessage
	saved    map[string]json.RawMessage
	filename string
}

func (s *memStore) sortedKeys() []string {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StoreSnapshot returns the saved contents of a store file, or nil when the file
// was never loaded.
func (b *Backend) StoreSnapshot(filename string) map[string]json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.storeFiles[filename]
	if !ok {
		return nil
	}
	return maps.Clone(b.stores[id].saved)
}

func (b *Backend) storeOps() map[string]opSpec {
	return map[string]opSpec{
		wireformat.OpLoad:    {fn: typed(b.storeLoad), record: true},
		wireformat.OpSet:     {fn: typed(b.storeSet)},
		wireformat.OpGet:     {fn: typed(b.storeGet), record: true},
		wireformat.OpDelete:  {fn: typed(b.storeDelete)},
		wireformat.OpClear:   {fn: typed(b.storeClear)},
		wireformat.OpKeys:    {fn: typed(b.storeKeys)},
		wireformat.OpValues:  {fn: typed(b.storeValues)},
		wireformat.OpEntries: {fn: typed(b.storeEntries), record: true},
		wireformat.OpLength:  {fn: typed(b.storeLength)},
		wireformat.OpSave:    {fn: typed(b.storeSave)},
		wireformat.OpReload:  {fn: typed(b.storeReload)},
		wireformat.OpList:    {fn: typed(b.storeList)},
	}
}

func (b *Backend) storeLoad(req entities.StoreLoadRequest) (entities.StoreLoadResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if req.Filename == "" {
		return entities.StoreLoadResponse{}, badRequest("filename is required")
	}
	if id, ok := b.storeFiles[req.Filename]; ok {
		return entities.StoreLoadResponse{StoreID: id}, nil
	}
	id := b.nextID("store")
	b.stores[id] = &memStore{
		filename: req.Filename,
		data:     map[string]json.RawMessage{},
		saved:    map[string]json.RawMessage{},
	}
	b.storeFiles[req.Filename] = id
	return entities.StoreLoadResponse{StoreID: id}, nil
}

func (b *Backend) store(id string) (*memStore, error) {
	s, ok := b.stores[id]
	if !ok {
		return nil, notFound("store not loaded: " + id)
	}
	return s, nil
}

func (b *Backend) storeSet(req entities.StoreRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	if req.Key == "" {
		return nil, badRequest("key is required")
	}
	value := req.Value
	if len(value) == 0 {
		value = json.RawMessage("null")
	}
	s.data[req.Key] = value
	return nil, nil
}

func (b *Backend) storeGet(req entities.StoreRequest) (entities.StoreGetResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return entities.StoreGetResponse{}, err
	}
	v, ok := s.data[req.Key]
	if !ok {
		return entities.StoreGetResponse{}, nil
	}
	return entities.StoreGetResponse{Found: true, Value: v}, nil
}

func (b *Backend) storeDelete(req entities.StoreRequest) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return false, err
	}
	_, ok := s.data[req.Key]
	delete(s.data, req.Key)
	return ok, nil
}

func (b *Backend) storeClear(req entities.StoreRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	clear(s.data)
	return nil, nil
}

func (b *Backend) storeKeys(req entities.StoreRequest) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	return s.sortedKeys(), nil
}

func (b *Backend) storeValues(req entities.StoreRequest) ([]json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	values := make([]json.RawMessage, 0, len(s.data))
	for _, k := range s.sortedKeys() {
		values = append(values, s.data[k])
	}
	return values, nil
}

func (b *Backend) storeEntries(req entities.StoreRequest) ([]entities.StoreEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	entries := make([]entities.StoreEntry, 0, len(s.data))
	for _, k := range s.sortedKeys() {
		entries = append(entries, entities.StoreEntry{Key: k, Value: s.data[k]})
	}
	return entries, nil
}

func (b *Backend) storeLength(req entities.StoreRequest) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return 0, err
	}
	return len(s.data), nil
}

func (b *Backend) storeSave(req entities.StoreRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	s.saved = maps.Clone(s.data)
	return nil, nil
}

func (b *Backend) storeReload(req entities.StoreRequest) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, err := b.store(req.StoreID)
	if err != nil {
		return nil, err
	}
	s.data = maps.Clone(s.saved)
	return nil, nil
}

func (b *Backend) storeList(struct{}) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	files := make([]string, 0, len(b.storeFiles))
	for f := range b.storeFiles {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}
