package results

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/pagination"
)

// System defines the public contract for result persistence and retrieval.
// Each Save replaces any prior output of the same stage for the document.
type System interface {
	Handler() *Handler

	SaveExtraction(ctx context.Context, documentID uuid.UUID, e Extraction) error
	SaveCalculation(ctx context.Context, documentID uuid.UUID, c Calculation) error
	SaveAudit(ctx context.Context, documentID uuid.UUID, a Audit) error

	// Clear removes every stored stage output for the document.
	Clear(ctx context.Context, documentID uuid.UUID) error

	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Results, error)

	ListAudits(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[AuditSummary], error)
}
