package entities

import "encoding/json"

// StoreLoadRequest opens (or creates) a store file.
type StoreLoadRequest struct {
	Filename string `json:"filename" validate:"required"`
}

// StoreLoadResponse carries the store id issued by the backend.
type StoreLoadResponse struct {
	StoreID string `json:"store_id"`
}

// StoreRequest is the body of every store operation after load. Key is required by
// set, get and delete; Value only by set.
type StoreRequest struct {
	StoreID string          `json:"store_id"`
	Key     string          `json:"key,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// StoreGetResponse is the result of get.
type StoreGetResponse struct {
	Value json.RawMessage `json:"value,omitempty"`
	Found bool            `json:"found"`
}

// StoreEntry is one key/value pair.
type StoreEntry struct {
	Value json.RawMessage `json:"value"`
	Key   string          `json:"key"`
}
