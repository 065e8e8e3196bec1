// Package errors provides the typed errors of the capability clients.
// All error types support unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/hostcap/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is implemented by every error type in this package so that callers
// (and the CLI) can turn any of them into a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// BackendUnavailableError is returned when a mode was explicitly forced but the
// backend it needs (native host, container proxy object) is not present.
type BackendUnavailableError struct {
	Capability entities.Capability
	Mode       entities.ExecutionMode
	Reason     string
}

func (e *BackendUnavailableError) Error() string {
	if e.Capability != "" {
		return fmt.Sprintf("%s: %s backend unavailable: %s", e.Capability, e.Mode, e.Reason)
	}
	return fmt.Sprintf("%s backend unavailable: %s", e.Mode, e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *BackendUnavailableError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "unavailable", Capability: e.Capability, Mode: e.Mode}
}

// ConnectivityError is returned by the orchestrator's pre-check when the resolved
// mode's liveness check fails. Target is only set for the remote bridge.
type ConnectivityError struct {
	Err    error
	Mode   entities.ExecutionMode
	Target string
}

func (e *ConnectivityError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("connectivity check failed for %s at %s: %v", e.Mode, e.Target, e.Err)
	}
	return fmt.Sprintf("connectivity check failed for %s: %v", e.Mode, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConnectivityError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{Message: e.Error(), Type: "connectivity", Mode: e.Mode}
	if e.Target != "" {
		detail.Details = map[string]any{"target": e.Target}
	}
	return detail
}

// OperationError is returned when a bound backend rejects an operation.
// Its message is the backend's message verbatim: the native host's error message,
// or the remote envelope's message (or "HTTP <status>: <statusText>" when the
// envelope carries none).
type OperationError struct {
	Capability entities.Capability
	Operation  string
	Mode       entities.ExecutionMode
	Message    string
	Code       string
	Status     int
}

func (e *OperationError) Error() string {
	return e.Message
}

// ToErrorDetail implements DetailedError.
func (e *OperationError) ToErrorDetail() *entities.ErrorDetail {
	detail := &entities.ErrorDetail{
		Message:    e.Message,
		Type:       "operation",
		Code:       e.Code,
		Capability: e.Capability,
		Mode:       e.Mode,
		Details:    map[string]any{"operation": e.Operation},
	}
	if e.Status > 0 {
		detail.Details["status"] = e.Status
	}
	return detail
}

// NotInitializedError is returned by an orchestrator accessor when the capability was
// never requested or failed to initialize.
type NotInitializedError struct {
	Capability entities.Capability
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("capability %q is not initialized", string(e.Capability))
}

// ToErrorDetail implements DetailedError.
func (e *NotInitializedError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "not_initialized", Capability: e.Capability}
}

// CapabilityInitError wraps the failure of one capability during orchestrated
// initialization.
type CapabilityInitError struct {
	Err        error
	Capability entities.Capability
	Mode       entities.ExecutionMode
}

func (e *CapabilityInitError) Error() string {
	return fmt.Sprintf("initialize %s (%s): %v", e.Capability, e.Mode, e.Err)
}

func (e *CapabilityInitError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CapabilityInitError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "init", Capability: e.Capability, Mode: e.Mode}
}

// ValidationError reports invalid operation input or configuration.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ValidationError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Field}
}

// IsNotInitialized reports whether err is (or wraps) a NotInitializedError.
func IsNotInitialized(err error) bool {
	var e *NotInitializedError
	return stdErrors.As(err, &e)
}
