package jobs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/jobs"
	"github.com/JaimeStill/footprint/pkg/routes"
)

const fakePDF = "%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF"

func setupMux(f *fixture) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, f.sys.Handler(10<<20).Routes())
	return mux
}

type part struct {
	filename    string
	contentType string
	body        string
}

func multipartBody(t *testing.T, field string, parts ...part) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+p.filename+`"`)
		h.Set("Content-Type", p.contentType)

		fw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		fw.Write([]byte(p.body))
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandlerRoutes(t *testing.T) {
	group := newFixture().sys.Handler(1024).Routes()

	if group.Prefix != "/jobs" {
		t.Errorf("prefix = %q, want /jobs", group.Prefix)
	}
	if len(group.Routes) != 5 {
		t.Errorf("routes = %d, want 5", len(group.Routes))
	}
}

func TestHandlerSubmit(t *testing.T) {
	t.Run("accepts pdfs", func(t *testing.T) {
		f := newFixture()
		body, ct := multipartBody(t, "files",
			part{"a.pdf", "application/pdf", fakePDF},
			part{"b.pdf", "application/pdf", fakePDF},
		)

		req := httptest.NewRequest("POST", "/jobs", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, req)
		f.runner.Wait()

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
		}

		var got jobs.Submitted
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.JobID == uuid.Nil || len(got.Documents) != 2 || got.Filenames[1] != "b.pdf" {
			t.Errorf("submitted = %+v", got)
		}
	})

	t.Run("rejects non-pdf", func(t *testing.T) {
		f := newFixture()
		body, ct := multipartBody(t, "files",
			part{"a.pdf", "application/pdf", fakePDF},
			part{"notes.txt", "text/plain", "hello"},
		)

		req := httptest.NewRequest("POST", "/jobs", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if len(f.docs.created) != 0 {
			t.Error("documents stored for a rejected batch")
		}
	})

	t.Run("missing files field", func(t *testing.T) {
		f := newFixture()
		body, ct := multipartBody(t, "file", part{"a.pdf", "application/pdf", fakePDF})

		req := httptest.NewRequest("POST", "/jobs", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	f := newFixture()
	job := newJob(2)
	f.store.Create(context.Background(), job)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/jobs/" + job.ID.String(), http.StatusOK},
		{"unknown", "/jobs/" + uuid.NewString(), http.StatusNotFound},
		{"invalid", "/jobs/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", "/jobs/"+job.ID.String(), nil))

	var got map[string]any
	json.NewDecoder(rec.Body).Decode(&got)
	if got["status"] != "processing" || got["progress_pct"] != float64(0) {
		t.Errorf("job = %v", got)
	}
}

func TestHandlerResultsWhileProcessing(t *testing.T) {
	f := newFixture()
	job := newJob(1)
	f.store.Create(context.Background(), job)

	for _, path := range []string{"/results", "/export"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", "/jobs/"+job.ID.String()+path, nil))

			if rec.Code != http.StatusAccepted {
				t.Errorf("status = %d, want 202", rec.Code)
			}

			var got jobs.Job
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != jobs.StatusProcessing {
				t.Errorf("status = %s, want processing", got.Status)
			}
		})
	}
}

func TestHandlerResultsAndExport(t *testing.T) {
	f := newFixture()
	submitted, err := f.sys.Submit(context.Background(), uploads("a.pdf"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	f.runner.Wait()

	base := "/jobs/" + submitted.JobID.String()

	rec := httptest.NewRecorder()
	setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", base+"/results", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("results status = %d, want 200", rec.Code)
	}

	var res jobs.JobResults
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Documents) != 1 || res.Documents[0].Results.Audit.RiskLevel != "medium" {
		t.Errorf("results = %+v", res)
	}

	rec = httptest.NewRecorder()
	setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", base+"/export", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content-type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty workbook")
	}
}

func TestHandlerList(t *testing.T) {
	f := newFixture()
	f.store.Create(context.Background(), newJob(1))
	f.store.Create(context.Background(), newJob(2))

	rec := httptest.NewRecorder()
	setupMux(f).ServeHTTP(rec, httptest.NewRequest("GET", "/jobs", nil))

	var got []jobs.Job
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("jobs = %d, want 2", len(got))
	}
}
