package dispatch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/reglet-dev/hostcap/application/config"
)

// ProxyArgs converts a wire request into the argument map handed to a proxy
// method. Keys are the wire (snake_case) field names.
func ProxyArgs(req any) (map[string]any, error) {
	if req == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	args := map[string]any{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("proxy arguments must be an object: %w", err)
	}
	return args, nil
}

// CallProxy invokes op on the binding's proxy object. The proxy's error is returned
// unchanged.
func (b *Binding) CallProxy(ctx context.Context, op string, req any) (any, error) {
	args, err := ProxyArgs(req)
	if err != nil {
		return nil, err
	}
	return b.Proxy.Call(ctx, op, args)
}

// ErrUnexpectedResult reports a proxy result whose shape does not match the
// operation's contract.
var ErrUnexpectedResult = errors.New("unexpected proxy result")

// As returns raw as a T, or an error wrapping ErrUnexpectedResult that names what
// (usually "<capability>.<op>") returned it.
func As[T any](what string, raw any) (T, error) {
	v, ok := raw.(T)
	if !ok {
		var want T
		return want, fmt.Errorf("%s: %w: got %T, want %T", what, ErrUnexpectedResult, raw, want)
	}
	return v, nil
}

// Decode re-encodes a raw proxy value through JSON into out.
func Decode(raw, out any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// DecodeRecord decodes a proxy object whose keys may be camelCase into a struct
// whose JSON tags are snake_case. Only top-level keys are renamed so nested user
// data (metadata, row values) keeps its keys.
func DecodeRecord(raw, out any) error {
	if m, ok := raw.(map[string]any); ok {
		raw = SnakeKeys(m)
	}
	return Decode(raw, out)
}

// DecodeRecords is DecodeRecord for a list of objects.
func DecodeRecords(raw any, out any) error {
	items, ok := raw.([]any)
	if !ok {
		return Decode(raw, out)
	}
	renamed := make([]any, len(items))
	for i, item := range items {
		if m, ok := item.(map[string]any); ok {
			renamed[i] = SnakeKeys(m)
		} else {
			renamed[i] = item
		}
	}
	return Decode(renamed, out)
}

// SnakeKeys returns a copy of m with camelCase keys renamed to snake_case
// ("lastInsertId" becomes "last_insert_id"). Keys already in snake_case are kept.
func SnakeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[snake(k)] = v
	}
	return out
}

func snake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Bytes extracts binary data from a proxy value: []byte, a list of byte-sized
// numbers, or a base64 string.
func Bytes(raw any) ([]byte, error) {
	switch v := raw.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return v, nil
	case string:
		return base64.StdEncoding.DecodeString(v)
	case []any:
		out := make([]byte, len(v))
		for i, item := range v {
			n, ok := item.(float64)
			if !ok {
				if iv, isInt := item.(int); isInt {
					n, ok = float64(iv), true
				}
			}
			if !ok || n < 0 || n > 255 {
				return nil, fmt.Errorf("byte %d is not in range 0..255", i)
			}
			out[i] = byte(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported binary value %T", raw)
	}
}

// Timestamp converts a proxy timestamp (RFC 3339 string or epoch milliseconds) into
// the RFC 3339 form the wire types decode. Other values are returned unchanged.
func Timestamp(raw any) any {
	switch v := raw.(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339Nano)
	case int64:
		return time.UnixMilli(v).UTC().Format(time.RFC3339Nano)
	case int:
		return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339Nano)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return raw
	}
}

// NormalizeTimestamps applies Timestamp to the named keys of m in place.
func NormalizeTimestamps(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			m[k] = Timestamp(v)
		}
	}
	return m
}

// SessionID extracts a session identifier from a proxy load result, which is either
// the id itself or an object carrying it under key (snake_case or camelCase).
func SessionID(raw any, key string) (string, error) {
	switch v := raw.(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case map[string]any:
		if id, ok := config.GetString(SnakeKeys(v), key); ok && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("proxy returned no %s", key)
}
