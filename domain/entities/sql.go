package entities

// SQLLoadRequest opens (or reuses) a database connection.
type SQLLoadRequest struct {
	ConnectionString string `json:"connection_string" validate:"required"`
}

// SQLLoadResponse carries the connection id issued by the backend.
type SQLLoadResponse struct {
	ConnectionID string `json:"connection_id"`
}

// SQLQueryRequest is the body of execute and select.
type SQLQueryRequest struct {
	ConnectionID string `json:"connection_id"`
	Query        string `json:"query" validate:"required"`
	Params       []any  `json:"params,omitempty"`
}

// SQLCloseRequest closes one connection.
type SQLCloseRequest struct {
	ConnectionID string `json:"connection_id" validate:"required"`
}

// ExecResult is the outcome of a statement that does not return rows.
type ExecResult struct {
	RowsAffected int64 `json:"rows_affected"`
	LastInsertID int64 `json:"last_insert_id"`
}

// Row is one result row keyed by column name. Values are JSON-decoded, so numbers
// are float64 regardless of the backend.
type Row map[string]any
