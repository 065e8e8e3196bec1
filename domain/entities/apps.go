package entities

import "time"

// AppStatus is the lifecycle state of a registered application.
type AppStatus string

const (
	AppStatusInstalled AppStatus = "installed"
	AppStatusActive    AppStatus = "active"
	AppStatusInactive  AppStatus = "inactive"
	AppStatusError     AppStatus = "error"
)

// AppInfo is one registry entry.
type AppInfo struct {
	RegisteredAt time.Time      `json:"registered_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ID           string         `json:"app_id"`
	Name         string         `json:"name"`
	Version      string         `json:"version,omitempty"`
	Entry        string         `json:"entry,omitempty"`
	Status       AppStatus      `json:"status"`
}

// AppManifest registers a new application.
type AppManifest struct {
	Metadata map[string]any `json:"metadata,omitempty"`
	ID       string         `json:"app_id" validate:"required"`
	Name     string         `json:"name" validate:"required"`
	Version  string         `json:"version,omitempty"`
	Entry    string         `json:"entry,omitempty"`
}

// AppPatch updates selected fields of an application. Nil fields are left unchanged.
type AppPatch struct {
	Name     *string        `json:"name,omitempty"`
	Version  *string        `json:"version,omitempty"`
	Entry    *string        `json:"entry,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AppIDRequest addresses one application.
type AppIDRequest struct {
	AppID string `json:"app_id" validate:"required"`
}

// AppUpdateRequest is the body of update.
type AppUpdateRequest struct {
	Patch AppPatch `json:"patch"`
	AppID string   `json:"app_id" validate:"required"`
}

// BulkAction is an action applied to several applications at once.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkUnregister BulkAction = "unregister"
)

// BulkRequest is the body of bulk.
type BulkRequest struct {
	Action BulkAction `json:"action" validate:"required,oneof=activate deactivate unregister"`
	AppIDs []string   `json:"app_ids" validate:"required,min=1,dive,required"`
}

// BulkResult reports per-application outcomes of a bulk action.
type BulkResult struct {
	Failed    map[string]string `json:"failed,omitempty"`
	Succeeded []string          `json:"succeeded"`
}

// AppHealth is the health report of one application.
type AppHealth struct {
	CheckedAt time.Time `json:"checked_at"`
	AppID     string    `json:"app_id"`
	Status    AppStatus `json:"status"`
	Message   string    `json:"message,omitempty"`
	Healthy   bool      `json:"healthy"`
}

// RegistryStats summarizes the registry.
type RegistryStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Errored  int `json:"errored"`
}

// AppEvent is one entry of the registry's event history.
type AppEvent struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
	AppID     string    `json:"app_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
}

// EventQuery filters the event history. A zero Limit means "all".
type EventQuery struct {
	AppID string `json:"app_id,omitempty"`
	Limit int    `json:"limit,omitempty" validate:"gte=0"`
}
