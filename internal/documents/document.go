// Package documents implements the document domain for footprint.
// It provides types, data access, and HTTP handlers for document upload,
// metadata, pipeline status tracking, and blob storage integration.
package documents

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Status is the externally visible progress of a document through the pipeline.
type Status string

// Document statuses in pipeline order. A document whose run fails keeps
// the status set by the last successful stage.
const (
	StatusPending     Status = "pending"
	StatusExtracting  Status = "extracting"
	StatusCalculating Status = "calculating"
	StatusAuditing    Status = "auditing"
	StatusCompleted   Status = "completed"
)

var statuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusCalculating,
	StatusAuditing,
	StatusCompleted,
}

// ParseStatus reports whether s names a known document status.
func ParseStatus(s string) (Status, bool) {
	v := Status(s)
	return v, slices.Contains(statuses, v)
}

// Document represents a registered document with its metadata and blob storage reference.
type Document struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`
	Status      Status    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new document.
// Data holds the raw file bytes. PageCount is optional and may be extracted
// by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}

// StatusChange is the payload of a document.status event.
type StatusChange struct {
	DocumentID uuid.UUID `json:"document_id"`
	Status     Status    `json:"status"`
}
