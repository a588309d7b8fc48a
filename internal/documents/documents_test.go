package documents_test

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{documents.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("find: %w", documents.ErrNotFound), http.StatusNotFound},
		{documents.ErrDuplicate, http.StatusConflict},
		{documents.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{fmt.Errorf("upload: %w", documents.ErrInvalidFile), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := documents.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := documents.ParseStatus("calculating"); !ok || s != documents.StatusCalculating {
		t.Errorf("ParseStatus(calculating) = %q, %v", s, ok)
	}
	for _, s := range []string{"", "failed", "COMPLETED"} {
		if _, ok := documents.ParseStatus(s); ok {
			t.Errorf("ParseStatus(%q) accepted", s)
		}
	}
}

func TestParseUpload(t *testing.T) {
	multipartBody := func(size int) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, _ := w.CreateFormFile("file", "bom.pdf")
		part.Write(bytes.Repeat([]byte("x"), size))
		w.Close()
		return &buf, w.FormDataContentType()
	}

	tests := []struct {
		name        string
		size        int
		contentType string
		wantErr     error
		wantText    string
	}{
		{name: "within limit", size: 128},
		{name: "over limit", size: 4096, wantErr: documents.ErrFileTooLarge, wantText: "limit is 1 KB"},
		{name: "not multipart", size: 16, contentType: "text/plain", wantErr: documents.ErrInvalidFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(tt.size)
			if tt.contentType != "" {
				ct = tt.contentType
			}
			req := httptest.NewRequest("POST", "/documents", body)
			req.Header.Set("Content-Type", ct)

			err := documents.ParseUpload(httptest.NewRecorder(), req, 1024)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error %q does not mention %q", err, tt.wantText)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	f := documents.FiltersFromQuery(url.Values{
		"status":          {"completed"},
		"filename":        {"invoice"},
		"uploaded_after":  {"2024-01-01"},
		"uploaded_before": {"2024-02-01T12:00:00Z"},
	})

	if f.Status == nil || *f.Status != documents.StatusCompleted {
		t.Errorf("Status = %v", f.Status)
	}
	if f.Filename == nil || *f.Filename != "invoice" {
		t.Errorf("Filename = %v", f.Filename)
	}
	if f.UploadedAfter == nil || !f.UploadedAfter.Equal(jan) {
		t.Errorf("UploadedAfter = %v, want %v", f.UploadedAfter, jan)
	}
	if f.UploadedBefore == nil || !f.UploadedBefore.Equal(feb) {
		t.Errorf("UploadedBefore = %v, want %v", f.UploadedBefore, feb)
	}

	dropped := documents.FiltersFromQuery(url.Values{
		"status":         {"failed"},
		"uploaded_after": {"last tuesday"},
	})
	if dropped != (documents.Filters{}) {
		t.Errorf("invalid values kept: %+v", dropped)
	}
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "documents", "d").
		Project("status", "Status").
		Project("filename", "Filename").
		Project("uploaded_at", "UploadedAt")
	base := "SELECT d.status, d.filename, d.uploaded_at FROM public.documents d"

	tests := []struct {
		name    string
		filters documents.Filters
		want    string
		args    int
	}{
		{"none", documents.Filters{}, base, 0},
		{
			"status and filename",
			documents.Filters{Status: ptr(documents.StatusPending), Filename: ptr("bom")},
			base + " WHERE d.status = $1 AND d.filename ILIKE $2",
			2,
		},
		{
			"upload window",
			documents.Filters{UploadedAfter: ptr(time.Now()), UploadedBefore: ptr(time.Now())},
			base + " WHERE d.uploaded_at >= $1 AND d.uploaded_at < $2",
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(projection)
			tt.filters.Apply(b)
			sql, args := b.Build()
			if sql != tt.want {
				t.Errorf("sql = %q\nwant  %q", sql, tt.want)
			}
			if len(args) != tt.args {
				t.Errorf("args = %v, want %d", args, tt.args)
			}
		})
	}
}
