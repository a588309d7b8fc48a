package pipeline

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/results"
)

// Documents is the document persistence a run reads from and reports status to.
// documents.System satisfies it.
type Documents interface {
	ReadRawInput(ctx context.Context, id uuid.UUID) ([]byte, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status documents.Status) error
}

// Results is the persistence for stage outputs.
// results.System satisfies it.
type Results interface {
	SaveExtraction(ctx context.Context, documentID uuid.UUID, e results.Extraction) error
	SaveCalculation(ctx context.Context, documentID uuid.UUID, c results.Calculation) error
	SaveAudit(ctx context.Context, documentID uuid.UUID, a results.Audit) error
	Clear(ctx context.Context, documentID uuid.UUID) error
}

// Runtime bundles the dependencies that pipeline nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Inference Inference
	Renderer  Renderer
	Documents Documents
	Results   Results
	Prompts   Prompts
	Factors   []byte
	Logger    *slog.Logger

	// MaxConcurrency bounds per-page inference calls. Zero means one per CPU.
	MaxConcurrency int
}

func (rt *Runtime) workers(n int) int {
	return workerCount(rt.MaxConcurrency, n)
}

func workerCount(limit, n int) int {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return max(min(limit, n), 1)
}
