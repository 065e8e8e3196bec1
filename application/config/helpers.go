package config

// Map is a loosely typed object, such as a raw result returned by a proxy object
// or a decoded JSON document.
type Map = map[string]any

// Get returns m[key] when it is present and of type T.
func Get[T any](m Map, key string) (T, bool) {
	v, ok := m[key].(T)
	return v, ok
}

// GetString extracts a string from m, returning (value, found).
func GetString(m Map, key string) (string, bool) { return Get[string](m, key) }
