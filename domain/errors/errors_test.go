package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendUnavailableError(t *testing.T) {
	err := &BackendUnavailableError{
		Capability: entities.CapabilityFS,
		Mode:       entities.ModeNative,
		Reason:     "no native host",
	}

	assert.Equal(t, "fs: native-embedded backend unavailable: no native host", err.Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, "unavailable", detail.Type)
	assert.Equal(t, entities.CapabilityFS, detail.Capability)
}

func TestBackendUnavailableError_NoCapability(t *testing.T) {
	err := &BackendUnavailableError{Mode: entities.ModeProxy, Reason: "no container"}
	assert.Equal(t, "hosted-proxy backend unavailable: no container", err.Error())
}

func TestConnectivityError(t *testing.T) {
	baseErr := fmt.Errorf("connection refused")
	err := &ConnectivityError{
		Mode:   entities.ModeRemote,
		Target: "localhost:1420",
		Err:    baseErr,
	}

	assert.Equal(t, "connectivity check failed for remote-bridge at localhost:1420: connection refused", err.Error())
	assert.True(t, errors.Is(err, baseErr))

	detail := err.ToErrorDetail()
	assert.Equal(t, "connectivity", detail.Type)
	assert.Equal(t, "localhost:1420", detail.Details["target"])
}

func TestConnectivityError_NoTarget(t *testing.T) {
	err := &ConnectivityError{Mode: entities.ModeNative, Err: errors.New("native host marker not found")}
	assert.Equal(t, "connectivity check failed for native-embedded: native host marker not found", err.Error())
	assert.Nil(t, err.ToErrorDetail().Details)
}

func TestOperationError_MessageIsVerbatim(t *testing.T) {
	err := &OperationError{
		Capability: entities.CapabilityStore,
		Operation:  "get",
		Mode:       entities.ModeRemote,
		Message:    "store not loaded",
		Code:       "STORE_NOT_FOUND",
		Status:     404,
	}

	assert.Equal(t, "store not loaded", err.Error())

	detail := err.ToErrorDetail()
	assert.Equal(t, "operation", detail.Type)
	assert.Equal(t, "STORE_NOT_FOUND", detail.Code)
	assert.Equal(t, "get", detail.Details["operation"])
	assert.Equal(t, 404, detail.Details["status"])
}

func TestNotInitializedError(t *testing.T) {
	err := &NotInitializedError{Capability: entities.CapabilitySQL}
	assert.Equal(t, `capability "sql" is not initialized`, err.Error())
	assert.True(t, IsNotInitialized(err))
	assert.True(t, IsNotInitialized(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsNotInitialized(errors.New("other")))
}

func TestCapabilityInitError(t *testing.T) {
	inner := &BackendUnavailableError{Mode: entities.ModeProxy, Reason: "missing"}
	err := &CapabilityInitError{Capability: entities.CapabilityApps, Mode: entities.ModeProxy, Err: inner}

	assert.Contains(t, err.Error(), "initialize apps (hosted-proxy)")

	var unavailable *BackendUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "missing", unavailable.Reason)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "port", Err: errors.New("must be between 1 and 65535")}
	assert.Equal(t, "validation failed for field 'port': must be between 1 and 65535", err.Error())

	noField := &ValidationError{Err: errors.New("bad")}
	assert.Equal(t, "validation failed: bad", noField.Error())
}

func TestToErrorDetail(t *testing.T) {
	assert.Nil(t, ToErrorDetail(nil))

	generic := ToErrorDetail(errors.New("plain"))
	assert.Equal(t, "internal", generic.Type)
	assert.Equal(t, "plain", generic.Message)

	wrapped := fmt.Errorf("outer: %w", &NotInitializedError{Capability: entities.CapabilityFS})
	assert.Equal(t, "not_initialized", ToErrorDetail(wrapped).Type)

	direct := entities.NewErrorDetail("operation", "x")
	assert.Same(t, direct, ToErrorDetail(direct))
}
