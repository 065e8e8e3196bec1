package validation

import (
	stdErrors "errors"
	"testing"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(entities.SQLQueryRequest{Query: "SELECT 1"}))
	assert.NoError(t, Struct(entities.EventQuery{}))
}

func TestStruct_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
		field string
		rule  string
	}{
		{"missing query", entities.SQLQueryRequest{}, "Query", "required"},
		{"missing path", entities.FSPathRequest{}, "Path", "required"},
		{"missing copy target", entities.FSCopyRequest{From: "/a"}, "To", "required"},
		{"bad bulk action", entities.BulkRequest{Action: "explode", AppIDs: []string{"a"}}, "Action", "oneof"},
		{"empty bulk ids", entities.BulkRequest{Action: entities.BulkActivate, AppIDs: []string{}}, "AppIDs", "min=1"},
		{"blank bulk id", entities.BulkRequest{Action: entities.BulkActivate, AppIDs: []string{""}}, "AppIDs[0]", "required"},
		{"negative limit", entities.EventQuery{Limit: -1}, "Limit", "gte=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			require.Error(t, err)

			var ve *errors.ValidationError
			require.True(t, stdErrors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Contains(t, ve.Error(), tt.rule)
		})
	}
}

func TestStruct_NonStruct(t *testing.T) {
	assert.NoError(t, Struct("plain string"))
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("key", "k", "required"))

	err := Var("key", "", "required")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'key'")
}
