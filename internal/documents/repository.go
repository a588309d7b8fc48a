package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/events"
	"github.com/JaimeStill/footprint/pkg/pagination"
	"github.com/JaimeStill/footprint/pkg/query"
	"github.com/JaimeStill/footprint/pkg/repository"
	"github.com/JaimeStill/footprint/pkg/storage"
)

type repo struct {
	db         *sql.DB
	blobs      storage.System
	events     events.Publisher
	logger     *slog.Logger
	pagination pagination.Config
}

// New returns the Postgres-backed System. Document bytes live in blobs;
// the row keeps the blob key.
func New(
	db *sql.DB,
	blobs storage.System,
	publisher events.Publisher,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		blobs:      blobs,
		events:     publisher,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort).WhereSearch(page.Search, "Filename", "ContentType")
	filters.Apply(qb).OrderByFields(page.Sort)

	type listing struct {
		docs  []Document
		total int
	}

	// count and page run on one pooled connection.
	l, err := repository.WithConn(ctx, r.db, func(conn *sql.Conn) (listing, error) {
		var out listing
		countSQL, countArgs := qb.BuildCount()
		if err := conn.QueryRowContext(ctx, countSQL, countArgs...).Scan(&out.total); err != nil {
			return out, fmt.Errorf("count documents: %w", err)
		}

		pageSQL, pageArgs := qb.BuildPage(page.PageSize, page.Offset())
		docs, err := repository.QueryMany(ctx, conn, pageSQL, pageArgs, scanDocument)
		if err != nil {
			return out, fmt.Errorf("query documents: %w", err)
		}
		out.docs = docs
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	res := pagination.NewPageResult(l.docs, l.total, page.Page, page.PageSize)
	return &res, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, mapError(err)
	}
	return &d, nil
}

// Create uploads the blob first, then inserts the row. A failed insert
// removes the blob again.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key, err := storage.Key("documents", id.String(), blobName(cmd.Filename))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if err := r.blobs.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	const insert = `
		INSERT INTO documents (id, filename, content_type, size_bytes, page_count, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returning

	args := []any{id, cmd.Filename, cmd.ContentType, int64(len(cmd.Data)), cmd.PageCount, key, StatusPending}
	d, err := repository.QueryOne(ctx, r.db, insert, args, scanDocument)
	if err != nil {
		if derr := r.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			r.logger.Warn("orphaned blob after failed insert", "key", key, "error", derr)
		}
		return nil, mapError(err)
	}

	r.logger.Info("document created", "id", d.ID, "filename", d.Filename, "size", d.SizeBytes)
	return &d, nil
}

// Delete removes the row, then its blob. A blob that cannot be removed is
// logged and left behind.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	var key string
	err := r.db.QueryRowContext(ctx, "DELETE FROM documents WHERE id = $1 RETURNING storage_key", id).Scan(&key)
	if err != nil {
		return mapError(err)
	}

	if err := r.blobs.Delete(ctx, key); err != nil {
		r.logger.Warn("orphaned blob after delete", "id", id, "key", key, "error", err)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func (r *repo) Open(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error) {
	d, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := r.blobs.Download(ctx, d.StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil, fmt.Errorf("%w: blob %s missing", ErrNotFound, d.StorageKey)
	case err != nil:
		return nil, nil, fmt.Errorf("download document blob: %w", err)
	}
	return d, body, nil
}

func (r *repo) ReadRawInput(ctx context.Context, id uuid.UUID) ([]byte, error) {
	_, body, err := r.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read document blob: %w", err)
	}
	return data, nil
}

// UpdateStatus stores status and publishes a document.status event. A
// failed publish does not fail the update.
func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE documents SET status = $1, updated_at = now() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return mapError(err)
	}

	r.logger.Info("document status updated", "id", id, "status", status)

	e := events.Event{
		Type:    events.TypeDocumentStatus,
		Key:     id.String(),
		Payload: StatusChange{DocumentID: id, Status: status},
	}
	if err := r.events.Publish(ctx, e); err != nil {
		r.logger.Warn("status event publish failed", "id", id, "error", err)
	}
	return nil
}

func mapError(err error) error {
	return repository.MapError(err, ErrNotFound, ErrDuplicate)
}

// blobName reduces an uploaded filename to one escaped path segment.
func blobName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == ".." {
		name = "document"
	}
	return url.PathEscape(name)
}
