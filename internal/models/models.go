package models

import "time"

// StoredFile is a named file in the flat storage namespace.
type StoredFile struct {
	Filename string
	Content  string
}

// OperationResult is the outcome of a file store operation.
// Content is []string for listings, string for reads and nil otherwise.
type OperationResult struct {
	Message    string      `json:"mensaje"`
	Content    interface{} `json:"contenido,omitempty"`
	StatusCode int         `json:"-"`
}

// CreateRequest carries the fields of a create call. A nil field was absent from the payload.
type CreateRequest struct {
	Filename *string `json:"filename" form:"filename" binding:"required"`
	Content  *string `json:"content" form:"content" binding:"required"`
}

// UpdateRequest carries the body of an update call.
type UpdateRequest struct {
	Content *string `json:"content" form:"content" binding:"required"`
}

// Change event types.
const (
	EventCreate = "create"
	EventUpdate = "update"
	EventDelete = "delete"
	EventMove   = "move"
)

// Change event sources.
const (
	SourceAPI        = "api"
	SourceFilesystem = "filesystem"
)

// ChangeEvent describes a mutation of the storage namespace.
type ChangeEvent struct {
	Type      string    `json:"type"`
	Filename  string    `json:"filename"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
