package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Open returns the document record and a stream of its raw bytes.
	// The caller must close the reader.
	Open(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error)

	// ReadRawInput returns the full raw bytes of a document.
	ReadRawInput(ctx context.Context, id uuid.UUID) ([]byte, error)

	// UpdateStatus records the pipeline status of a document.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
