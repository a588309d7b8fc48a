package documents

import (
	"net/url"
	"time"

	"github.com/JaimeStill/footprint/pkg/query"
	"github.com/JaimeStill/footprint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

// returning lists the columns in scanDocument order.
const returning = "id, filename, content_type, size_bytes, page_count, storage_key, status, uploaded_at, updated_at"

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters narrows a document listing. Nil fields are ignored.
// The upload window is half-open: [UploadedAfter, UploadedBefore).
type Filters struct {
	Status         *Status    `json:"status,omitempty"`
	Filename       *string    `json:"filename,omitempty"`
	UploadedAfter  *time.Time `json:"uploaded_after,omitempty"`
	UploadedBefore *time.Time `json:"uploaded_before,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereRange("UploadedAt", f.UploadedAfter, f.UploadedBefore)
}

// FiltersFromQuery reads status, filename, uploaded_after and
// uploaded_before. Dates accept RFC 3339 or YYYY-MM-DD; unknown statuses
// and unparseable dates are dropped.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if status, ok := ParseStatus(values.Get("status")); ok {
		f.Status = &status
	}
	if name := values.Get("filename"); name != "" {
		f.Filename = &name
	}
	f.UploadedAfter = parseTime(values.Get("uploaded_after"))
	f.UploadedBefore = parseTime(values.Get("uploaded_before"))

	return f
}

func parseTime(s string) *time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID, &d.Filename, &d.ContentType,
		&d.SizeBytes, &d.PageCount, &d.StorageKey,
		&d.Status, &d.UploadedAt, &d.UpdatedAt,
	)
	return d, err
}
