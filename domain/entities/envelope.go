package entities

import "encoding/json"

// Envelope is the response body of every remote-bridge endpoint except health.
type Envelope struct {
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Success bool            `json:"success"`
}

// NewEnvelope wraps data in a successful envelope.
func NewEnvelope(data any) (Envelope, error) {
	if data == nil {
		return Envelope{Success: true}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Success: true, Data: raw}, nil
}

// FailedEnvelope builds a failure envelope.
func FailedEnvelope(message, code string) Envelope {
	return Envelope{Message: message, Error: code}
}

// HealthStatus is the body served by the health endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
