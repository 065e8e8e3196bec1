package hostfuncs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/reglet-dev/hostcap/wireformat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Key string `json:"key"`
}

type echoResponse struct {
	Value string `json:"value"`
}

func decodeReply(t *testing.T, raw []byte) wireformat.NativeReply {
	t.Helper()
	var reply wireformat.NativeReply
	require.NoError(t, json.Unmarshal(raw, &reply))
	return reply
}

func TestNewJSONHandler_Success(t *testing.T) {
	h := NewJSONHandler(func(ctx context.Context, req echoRequest) (echoResponse, error) {
		return echoResponse{Value: "v:" + req.Key}, nil
	})

	raw, err := h(context.Background(), []byte(`{"key":"k"}`))
	require.NoError(t, err)

	reply := decodeReply(t, raw)
	assert.False(t, reply.Failed())
	assert.JSONEq(t, `{"value":"v:k"}`, string(reply.Result))
}

func TestNewJSONHandler_EmptyPayload(t *testing.T) {
	h := NewJSONHandler(func(ctx context.Context, req echoRequest) ([]string, error) {
		return []string{req.Key}, nil
	})

	raw, err := h(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[""]`, string(decodeReply(t, raw).Result))
}

func TestNewJSONHandler_BadJSON(t *testing.T) {
	h := NewJSONHandler(func(ctx context.Context, req echoRequest) (echoResponse, error) {
		t.Fatal("handler must not run")
		return echoResponse{}, nil
	})

	raw, err := h(context.Background(), []byte(`{`))
	require.NoError(t, err)

	reply := decodeReply(t, raw)
	assert.Equal(t, "VALIDATION_ERROR", reply.Error)
	assert.Equal(t, 400, reply.Code)
}

func TestNewJSONHandler_Errors(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		h := NewJSONHandler(func(ctx context.Context, req echoRequest) (echoResponse, error) {
			return echoResponse{}, errors.New("disk full")
		})
		raw, err := h(context.Background(), []byte(`{}`))
		require.NoError(t, err)

		reply := decodeReply(t, raw)
		assert.Equal(t, "OPERATION_ERROR", reply.Error)
		assert.Equal(t, "disk full", reply.Message)
	})

	t.Run("host error keeps its code", func(t *testing.T) {
		h := NewJSONHandler(func(ctx context.Context, req echoRequest) (echoResponse, error) {
			return echoResponse{}, NotFound("no such file: /x")
		})
		raw, err := h(context.Background(), []byte(`{}`))
		require.NoError(t, err)

		reply := decodeReply(t, raw)
		assert.Equal(t, "NOT_FOUND", reply.Error)
		assert.Equal(t, 404, reply.Code)
		assert.Equal(t, "no such file: /x", reply.Message)
	})
}

func TestWithHandler_Typed(t *testing.T) {
	reg, err := NewRegistry(
		WithHandler("store.length", func(ctx context.Context, req echoRequest) (int, error) {
			return 3, nil
		}),
	)
	require.NoError(t, err)

	raw, err := reg.Invoke(context.Background(), "store.length", []byte(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `3`, string(decodeReply(t, raw).Result))
}
