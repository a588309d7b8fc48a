package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/pkg/pagination"
	"github.com/JaimeStill/footprint/pkg/routes"
)

// fakeSystem serves a fixed set of prompts from memory and records the
// last list query and command it received.
type fakeSystem struct {
	prompts   map[uuid.UUID]prompts.Prompt
	override  map[prompts.Stage]string
	failWith  error
	lastPage  pagination.PageRequest
	lastQuery prompts.Filters
	lastCmd   prompts.Command
}

func newFakeSystem(seed ...prompts.Prompt) *fakeSystem {
	f := &fakeSystem{
		prompts:  make(map[uuid.UUID]prompts.Prompt),
		override: make(map[prompts.Stage]string),
	}
	for _, p := range seed {
		f.prompts[p.ID] = p
	}
	return f
}

func (f *fakeSystem) Handler() *prompts.Handler {
	return prompts.NewHandler(f, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (f *fakeSystem) List(_ context.Context, page pagination.PageRequest, filters prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastPage, f.lastQuery = page, filters

	var items []prompts.Prompt
	for _, p := range f.prompts {
		if filters.Stage == nil || p.Stage == *filters.Stage {
			items = append(items, p)
		}
	}
	result := pagination.NewPageResult(items, len(items), page.Page, page.PageSize)
	return &result, nil
}

func (f *fakeSystem) Find(_ context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	p, ok := f.prompts[id]
	if !ok {
		return nil, prompts.ErrNotFound
	}
	return &p, nil
}

func (f *fakeSystem) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	if text, ok := f.override[stage]; ok {
		return text, nil
	}
	return prompts.Instructions(stage)
}

func (f *fakeSystem) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func (f *fakeSystem) Create(_ context.Context, cmd prompts.Command) (*prompts.Prompt, error) {
	f.lastCmd = cmd
	for _, p := range f.prompts {
		if p.Name == cmd.Name {
			return nil, prompts.ErrDuplicate
		}
	}
	p := prompts.Prompt{ID: uuid.New(), Name: cmd.Name, Stage: cmd.Stage, Instructions: cmd.Instructions, Description: cmd.Description}
	f.prompts[p.ID] = p
	return &p, nil
}

func (f *fakeSystem) Update(_ context.Context, id uuid.UUID, cmd prompts.Command) (*prompts.Prompt, error) {
	f.lastCmd = cmd
	p, ok := f.prompts[id]
	if !ok {
		return nil, prompts.ErrNotFound
	}
	p.Name, p.Stage, p.Instructions, p.Description = cmd.Name, cmd.Stage, cmd.Instructions, cmd.Description
	f.prompts[id] = p
	return &p, nil
}

func (f *fakeSystem) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.prompts[id]; !ok {
		return prompts.ErrNotFound
	}
	delete(f.prompts, id)
	return nil
}

func (f *fakeSystem) Activate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return f.setActive(id, true)
}

func (f *fakeSystem) Deactivate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return f.setActive(id, false)
}

func (f *fakeSystem) setActive(id uuid.UUID, active bool) (*prompts.Prompt, error) {
	p, ok := f.prompts[id]
	if !ok {
		return nil, prompts.ErrNotFound
	}
	if active {
		for otherID, other := range f.prompts {
			if other.Stage == p.Stage {
				other.Active = false
				f.prompts[otherID] = other
			}
		}
	}
	p.Active = active
	f.prompts[id] = p
	return &p, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(h *prompts.Handler, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

var (
	extractID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	auditID   = uuid.MustParse("550e8400-e29b-41d4-a716-446655440001")
)

func seed() []prompts.Prompt {
	return []prompts.Prompt{
		{ID: extractID, Name: "detailed-extract", Stage: prompts.StageExtract, Instructions: "Report every field.", Active: true},
		{ID: auditID, Name: "strict-audit", Stage: prompts.StageAudit, Instructions: "Flag anything above 100 kg."},
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		failWith   error
		wantStatus int
		check      func(t *testing.T, f *fakeSystem, body []byte)
	}{
		{
			name: "list with query filters", method: "GET",
			target:     "/prompts?stage=audit&active=false&page=2&page_size=5",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeSystem, body []byte) {
				var page pagination.PageResult[prompts.Prompt]
				decode(t, body, &page)
				if len(page.Data) != 1 || page.Data[0].ID != auditID {
					t.Errorf("data = %+v, want the audit prompt", page.Data)
				}
				if f.lastPage.Page != 2 || f.lastPage.PageSize != 5 {
					t.Errorf("page = %+v", f.lastPage)
				}
				if f.lastQuery.Active == nil || *f.lastQuery.Active {
					t.Errorf("active filter = %v, want false", f.lastQuery.Active)
				}
			},
		},
		{
			name: "list failure", method: "GET", target: "/prompts",
			failWith:   errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "search normalizes paging", method: "POST", target: "/prompts/search",
			body:       `{"page": 0, "page_size": 500, "stage": "extract"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeSystem, _ []byte) {
				if f.lastPage.Page != 1 || f.lastPage.PageSize != 100 {
					t.Errorf("page = %+v, want page 1 size 100", f.lastPage)
				}
				if f.lastQuery.Stage == nil || *f.lastQuery.Stage != prompts.StageExtract {
					t.Errorf("stage filter = %v", f.lastQuery.Stage)
				}
			},
		},
		{
			name: "search with malformed body", method: "POST", target: "/prompts/search",
			body: `{`, wantStatus: http.StatusBadRequest,
		},
		{
			name: "stages", method: "GET", target: "/prompts/stages",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, _ *fakeSystem, body []byte) {
				if got := strings.TrimSpace(string(body)); got != `["extract","calculate","audit"]` {
					t.Errorf("stages = %s", got)
				}
			},
		},
		{
			name: "stage falls back to default instructions", method: "GET", target: "/prompts/stages/calculate",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, _ *fakeSystem, body []byte) {
				var got prompts.StagePrompt
				decode(t, body, &got)
				want, _ := prompts.Instructions(prompts.StageCalculate)
				if got.Stage != prompts.StageCalculate || got.Instructions != want {
					t.Errorf("stage prompt = %+v", got)
				}
				if !strings.Contains(got.Spec, "total_carbon_kg") {
					t.Errorf("spec missing total_carbon_kg: %q", got.Spec)
				}
			},
		},
		{
			name: "unknown stage", method: "GET", target: "/prompts/stages/summarize",
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "stage lookup failure", method: "GET", target: "/prompts/stages/extract",
			failWith:   errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "find", method: "GET", target: "/prompts/" + extractID.String(),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, _ *fakeSystem, body []byte) {
				var got prompts.Prompt
				decode(t, body, &got)
				if got.Name != "detailed-extract" || !got.Active {
					t.Errorf("prompt = %+v", got)
				}
			},
		},
		{name: "find malformed id", method: "GET", target: "/prompts/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "find missing", method: "GET", target: "/prompts/" + uuid.NewString(), wantStatus: http.StatusNotFound},
		{
			name: "create", method: "POST", target: "/prompts",
			body:       `{"name": "terse-calc", "stage": "calculate", "instructions": "Be brief.", "description": "short"}`,
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, f *fakeSystem, body []byte) {
				var got prompts.Prompt
				decode(t, body, &got)
				if got.Stage != prompts.StageCalculate || got.Active {
					t.Errorf("created = %+v, want inactive calculate prompt", got)
				}
				if f.lastCmd.Description == nil || *f.lastCmd.Description != "short" {
					t.Errorf("description = %v", f.lastCmd.Description)
				}
			},
		},
		{
			name: "create duplicate name", method: "POST", target: "/prompts",
			body:       `{"name": "strict-audit", "stage": "audit", "instructions": "x"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name: "create unknown stage", method: "POST", target: "/prompts",
			body:       `{"name": "n", "stage": "classify", "instructions": "x"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "create without instructions", method: "POST", target: "/prompts",
			body:       `{"name": "n", "stage": "audit", "instructions": "  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{name: "create malformed body", method: "POST", target: "/prompts", body: `not json`, wantStatus: http.StatusBadRequest},
		{
			name: "update", method: "PUT", target: "/prompts/" + auditID.String(),
			body:       `{"name": "lenient-audit", "stage": "audit", "instructions": "Relax."}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeSystem, _ []byte) {
				if got := f.prompts[auditID]; got.Name != "lenient-audit" || got.Instructions != "Relax." {
					t.Errorf("stored = %+v", got)
				}
			},
		},
		{
			name: "update missing", method: "PUT", target: "/prompts/" + uuid.NewString(),
			body:       `{"name": "x", "stage": "audit", "instructions": "y"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "update without stage", method: "PUT", target: "/prompts/" + auditID.String(),
			body:       `{"name": "x", "instructions": "y"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "delete", method: "DELETE", target: "/prompts/" + auditID.String(),
			wantStatus: http.StatusNoContent,
			check: func(t *testing.T, f *fakeSystem, _ []byte) {
				if _, ok := f.prompts[auditID]; ok {
					t.Error("prompt still stored")
				}
			},
		},
		{name: "delete missing", method: "DELETE", target: "/prompts/" + uuid.NewString(), wantStatus: http.StatusNotFound},
		{name: "delete malformed id", method: "DELETE", target: "/prompts/42", wantStatus: http.StatusBadRequest},
		{
			name: "activate", method: "POST", target: "/prompts/" + auditID.String() + "/activate",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeSystem, _ []byte) {
				if !f.prompts[auditID].Active || !f.prompts[extractID].Active {
					t.Error("activation should only affect the audit stage")
				}
			},
		},
		{
			name: "deactivate", method: "POST", target: "/prompts/" + extractID.String() + "/deactivate",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, f *fakeSystem, _ []byte) {
				if f.prompts[extractID].Active {
					t.Error("prompt still active")
				}
			},
		},
		{name: "activate missing", method: "POST", target: "/prompts/" + uuid.NewString() + "/activate", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeSystem(seed()...)
			f.failWith = tt.failWith

			rec := serve(f.Handler(), tt.method, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.check != nil {
				tt.check(t, f, rec.Body.Bytes())
			}
		})
	}
}

func TestHandlerRoutes(t *testing.T) {
	var got []string
	for _, r := range newFakeSystem().Handler().Routes().Flatten() {
		got = append(got, r.Method+" "+r.Pattern)
	}
	want := []string{
		"GET /prompts", "POST /prompts", "POST /prompts/search",
		"GET /prompts/{id}", "PUT /prompts/{id}", "DELETE /prompts/{id}",
		"POST /prompts/{id}/activate", "POST /prompts/{id}/deactivate",
		"GET /prompts/stages", "GET /prompts/stages/{stage}",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("routes = %q\nwant     %q", got, want)
	}
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}
