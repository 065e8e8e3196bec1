// Package schema generates JSON schemas for the remote-bridge wire contract.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/wireformat"
)

// GenerateSchema creates a JSON schema from a Go value.
// It uses the `invopop/jsonschema` library to reflect on the value
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: isStruct(v), // Expand struct definitions inline
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}

// Operation describes one operation of the wire contract. Request is omitted for
// operations without a body and Response for operations without data.
type Operation struct {
	Capability entities.Capability `json:"capability"`
	Operation  string              `json:"operation"`
	Method     string              `json:"method"`
	Path       string              `json:"path"`
	Request    json.RawMessage     `json:"request,omitempty"`
	Response   json.RawMessage     `json:"response,omitempty"`
}

// ForOperation returns the contract of one capability operation.
func ForOperation(capability entities.Capability, op string) (Operation, error) {
	route, err := wireformat.Lookup(capability, op)
	if err != nil {
		return Operation{}, err
	}
	types, ok := payloads[capability][op]
	if !ok {
		return Operation{}, fmt.Errorf("schema: no payload types for %s.%s", capability, op)
	}

	out := Operation{Capability: capability, Operation: op, Method: route.Method, Path: route.Path}
	if types.request != nil {
		if out.Request, err = GenerateSchema(types.request); err != nil {
			return Operation{}, err
		}
	}
	if types.response != nil {
		if out.Response, err = GenerateSchema(types.response); err != nil {
			return Operation{}, err
		}
	}
	return out, nil
}

// Contract returns every operation of the given capabilities (all when none are
// named), in route order.
func Contract(caps ...entities.Capability) ([]Operation, error) {
	if len(caps) == 0 {
		caps = entities.AllCapabilities()
	}
	var out []Operation
	for _, c := range caps {
		for _, op := range wireformat.Operations(c) {
			o, err := ForOperation(c, op)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	return out, nil
}
