package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/results"
)

// System defines the public contract for job operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Submit stores each upload as a pending document, records a job for
	// them, and starts the runs in the background.
	Submit(ctx context.Context, uploads []documents.CreateCommand) (*Submitted, error)

	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context) ([]Job, error)

	// Results returns the stored outputs of every document in a completed
	// job. It returns ErrProcessing while any document is still running.
	Results(ctx context.Context, id uuid.UUID) (*JobResults, error)

	// Export renders a completed job's results as an XLSX workbook.
	Export(ctx context.Context, id uuid.UUID) ([]byte, error)
}

// Documents is the document storage a submission writes to.
type Documents interface {
	Create(ctx context.Context, cmd documents.CreateCommand) (*documents.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Results is the result lookup used to assemble job results.
type Results interface {
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*results.Results, error)
}
