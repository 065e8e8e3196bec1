package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapHelpers(t *testing.T) {
	var m Map
	if err := json.Unmarshal([]byte(`{"store_id":"s1","found":true,"rows":3,"nested":{"a":1}}`), &m); err != nil {
		t.Fatal(err)
	}

	id, ok := GetString(m, "store_id")
	assert.True(t, ok)
	assert.Equal(t, "s1", id)

	_, ok = GetString(m, "found")
	assert.False(t, ok, "wrong type")
	_, ok = GetString(m, "missing")
	assert.False(t, ok)

	nested, ok := Get[map[string]any](m, "nested")
	assert.True(t, ok)
	assert.Equal(t, 1.0, nested["a"])

	assert.NotPanics(t, func() { GetString(nil, "x") })
}
