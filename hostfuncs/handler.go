package hostfuncs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reglet-dev/hostcap/wireformat"
)

// HostFunc is a typed capability function.
type HostFunc[Req any, Resp any] func(context.Context, Req) (Resp, error)

// ByteHandler accepts a JSON payload and returns a JSON reply.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// NewJSONHandler wraps a typed HostFunc into a ByteHandler that speaks the native
// reply contract: {"result": <resp>} on success, an ErrorResponse otherwise.
// A *HostError returned by fn keeps its code; any other error becomes OPERATION_ERROR.
//
// Usage:
//
//	get := hostfuncs.NewJSONHandler(func(ctx context.Context, req entities.StoreRequest) (entities.StoreGetResponse, error) {
//	    return myStore.Get(req.StoreID, req.Key)
//	})
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &req); err != nil {
				return NewValidationError(fmt.Sprintf("failed to unmarshal request: %v", err)).ToJSON(), nil
			}
		}

		resp, err := fn(ctx, req)
		if err != nil {
			var he *HostError
			if errors.As(err, &he) {
				return he.Response().ToJSON(), nil
			}
			return NewOperationError(err.Error()).ToJSON(), nil
		}

		raw, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return json.Marshal(wireformat.NativeReply{Result: raw})
	}
}
