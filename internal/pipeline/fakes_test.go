package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/internal/results"
)

const (
	calculateResponse = `{
  "total_carbon_kg": 350.5,
  "breakdown": [
    {"category": "materials", "emission_factor": 1.85, "quantity": 150, "carbon_output": 277.5, "unit": "kgCO2e"},
    {"category": "transport", "emission_factor": 0.105, "quantity": 695.2, "carbon_output": 73}
  ]
}`

	auditResponse = `{
  "hotspots": [
    {"category": "materials", "carbon_output": 277.5, "percentage_of_total": 79.2, "severity": "high"}
  ],
  "recommendations": ["Source recycled steel"],
  "total_emissions": 350.5,
  "risk_level": "medium"
}`
)

var pageResponses = map[string]string{
	"page-1": `{"supplier_name": "Acme Metals", "quantity": 100, "unit": "kg"}`,
	"page-2": `{"supplier_name": null, "quantity": 150, "material_type": "steel", "notes": "ignored"}`,
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeInference struct {
	mu          sync.Mutex
	chatCalls   int
	visionCalls int
	prompts     map[prompts.Stage]string

	active    int
	maxActive int

	chat   func(stage prompts.Stage, prompt string) (string, error)
	vision func(image string) (string, error)
}

func newFakeInference() *fakeInference {
	return &fakeInference{
		prompts: make(map[prompts.Stage]string),
		chat: func(stage prompts.Stage, _ string) (string, error) {
			switch stage {
			case prompts.StageCalculate:
				return calculateResponse, nil
			case prompts.StageAudit:
				return auditResponse, nil
			}
			return "", fmt.Errorf("unexpected stage %s", stage)
		},
		vision: func(image string) (string, error) {
			return pageResponses[image], nil
		},
	}
}

func stageOf(prompt string) prompts.Stage {
	for _, s := range prompts.Stages() {
		if strings.Contains(prompt, "spec:"+string(s)) {
			return s
		}
	}
	return ""
}

func (f *fakeInference) Chat(_ context.Context, prompt string) (string, error) {
	stage := stageOf(prompt)

	f.mu.Lock()
	f.chatCalls++
	f.prompts[stage] = prompt
	f.mu.Unlock()

	return f.chat(stage, prompt)
}

func (f *fakeInference) Vision(_ context.Context, prompt string, images []string) (string, error) {
	f.mu.Lock()
	f.visionCalls++
	f.prompts[stageOf(prompt)] = prompt
	f.active++
	f.maxActive = max(f.maxActive, f.active)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.active--
		f.mu.Unlock()
	}()

	if len(images) != 1 {
		return "", errors.New("expected one image per call")
	}
	return f.vision(images[0])
}

func (f *fakeInference) calls() (chat, vision int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls, f.visionCalls
}

type fakeRenderer struct {
	pages []string
	err   error
}

func (r *fakeRenderer) Render(context.Context, []byte) ([]string, error) {
	return r.pages, r.err
}

type fakeDocuments struct {
	mu        sync.Mutex
	raw       []byte
	readErr   error
	statusErr error
	statuses  []documents.Status
}

func (d *fakeDocuments) ReadRawInput(context.Context, uuid.UUID) ([]byte, error) {
	if d.readErr != nil {
		return nil, d.readErr
	}
	return d.raw, nil
}

func (d *fakeDocuments) UpdateStatus(_ context.Context, _ uuid.UUID, status documents.Status) error {
	if d.statusErr != nil {
		return d.statusErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, status)
	return nil
}

func (d *fakeDocuments) Find(_ context.Context, id uuid.UUID) (*documents.Document, error) {
	if d.readErr != nil {
		return nil, d.readErr
	}
	return &documents.Document{ID: id, Filename: "invoice.pdf"}, nil
}

func (d *fakeDocuments) history() []documents.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]documents.Status(nil), d.statuses...)
}

type fakeResults struct {
	mu          sync.Mutex
	extraction  *results.Extraction
	calculation *results.Calculation
	audit       *results.Audit
	clears      int
	failOn      string
}

var errPersist = errors.New("connection refused")

func (r *fakeResults) SaveExtraction(_ context.Context, _ uuid.UUID, e results.Extraction) error {
	if r.failOn == pipeline.NodeExtract {
		return errPersist
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extraction = &e
	return nil
}

func (r *fakeResults) SaveCalculation(_ context.Context, _ uuid.UUID, c results.Calculation) error {
	if r.failOn == pipeline.NodeCalculate {
		return errPersist
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculation = &c
	return nil
}

func (r *fakeResults) SaveAudit(_ context.Context, _ uuid.UUID, a results.Audit) error {
	if r.failOn == pipeline.NodeAudit {
		return errPersist
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audit = &a
	return nil
}

// Clear fails when the router's persistence is set to fail.
func (r *fakeResults) Clear(context.Context, uuid.UUID) error {
	if r.failOn == pipeline.NodeRouter {
		return errPersist
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.extraction, r.calculation, r.audit = nil, nil, nil
	return nil
}

type fakePrompts struct{}

func (fakePrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return "instructions:" + string(stage), nil
}

func (fakePrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return "spec:" + string(stage), nil
}

type fixture struct {
	inference *fakeInference
	renderer  *fakeRenderer
	documents *fakeDocuments
	results   *fakeResults
	runtime   *pipeline.Runtime
}

func newFixture() *fixture {
	f := &fixture{
		inference: newFakeInference(),
		renderer:  &fakeRenderer{pages: []string{"page-1", "page-2"}},
		documents: &fakeDocuments{raw: []byte("%PDF-1.7")},
		results:   &fakeResults{},
	}
	f.runtime = &pipeline.Runtime{
		Inference: f.inference,
		Renderer:  f.renderer,
		Documents: f.documents,
		Results:   f.results,
		Prompts:   fakePrompts{},
		Factors:   []byte(`{"categories": {"materials": {"steel": {"factor": 1.85, "per": "kg"}}}}`),
		Logger:    discardLogger(),
	}
	return f
}
