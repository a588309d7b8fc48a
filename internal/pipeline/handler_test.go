package pipeline_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/pkg/routes"
)

func setupMux(f *fixture) *http.ServeMux {
	h := pipeline.NewHandler(pipeline.New(f.runtime), f.documents, discardLogger())
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestHandlerAnalyze(t *testing.T) {
	t.Run("runs the pipeline", func(t *testing.T) {
		f := newFixture()

		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/"+docID.String()+"/analyze", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["document_id"] != docID.String() {
			t.Errorf("document_id = %v", body["document_id"])
		}
		if _, ok := body["audit"]; !ok {
			t.Error("response missing audit")
		}
		if _, ok := body["error"]; ok {
			t.Errorf("unexpected error field: %v", body["error"])
		}
	})

	t.Run("failed run reports stage", func(t *testing.T) {
		f := newFixture()
		f.results.failOn = pipeline.NodeCalculate

		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/"+docID.String()+"/analyze", nil))

		var s pipeline.State
		if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if s.FailedStage != pipeline.NodeCalculate || s.Error == "" {
			t.Errorf("error = %q at %q", s.Error, s.FailedStage)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupMux(newFixture()).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/abc/analyze", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		f := newFixture()
		f.documents.readErr = documents.ErrNotFound

		rec := httptest.NewRecorder()
		setupMux(f).ServeHTTP(rec, httptest.NewRequest("POST", "/documents/"+docID.String()+"/analyze", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if len(f.documents.history()) != 0 {
			t.Error("pipeline ran for unknown document")
		}
	})
}
