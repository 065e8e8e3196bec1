package hostfuncs

import (
	"encoding/json"
)

// ErrorResponse is the native reply for a failed call. Clients surface Message
// verbatim.
type ErrorResponse struct {
	// Error is a machine-readable error type identifier (e.g., "VALIDATION_ERROR").
	Error string `json:"error"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Code is a numeric error code (e.g., 400, 500).
	Code int `json:"code"`
}

// ToJSON serializes the ErrorResponse to JSON bytes.
// Returns nil if serialization fails (which should never happen for this simple type).
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError creates an error response for bad input (e.g., malformed JSON).
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Code:    400,
	}
}

// NewNotFoundError creates an error response for unknown function names.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{
		Error:   "NOT_FOUND",
		Message: "unknown host function: " + name,
		Code:    404,
	}
}

// NewOperationError creates an error response for a capability operation the host
// rejected.
func NewOperationError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "OPERATION_ERROR",
		Message: message,
		Code:    422,
	}
}

// NewInternalError creates an error response for unexpected failures.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: message,
		Code:    500,
	}
}

// NewPanicError creates an error response for recovered panics.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	if err, ok := panicValue.(error); ok {
		msg = err.Error()
	} else if s, ok := panicValue.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	return NewInternalError("panic: " + msg)
}

// HostError lets a HostFunc choose the error type and code of its reply.
type HostError struct {
	Kind    string
	Message string
	Code    int
}

func (e *HostError) Error() string {
	return e.Message
}

// Response converts the error into its wire form.
func (e *HostError) Response() ErrorResponse {
	return ErrorResponse{Error: e.Kind, Message: e.Message, Code: e.Code}
}

// NotFound returns a HostError for a missing resource (file, key, app).
func NotFound(message string) *HostError {
	return &HostError{Kind: "NOT_FOUND", Message: message, Code: 404}
}
