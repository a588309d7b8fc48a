package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/query"
	"github.com/JaimeStill/footprint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "jobs", "j").
	Project("id", "ID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("completed_at", "CompletedAt").
	Join("public", "job_documents", "jd", "JOIN", "jd.job_id = j.id").
	Project("document_id", "DocumentID").
	Project("status", "EntryStatus").
	Project("error", "Error").
	Project("failed_stage", "FailedStage").
	Project("position", "Position").
	Join("public", "documents", "d", "JOIN", "d.id = jd.document_id").
	Project("filename", "Filename")

var jobOrder = []query.SortField{
	{Field: "CreatedAt", Descending: true},
	{Field: "ID"},
	{Field: "Position"},
}

type jobRow struct {
	job      Job
	entry    Entry
	position int
}

func scanJobRow(s repository.Scanner) (jobRow, error) {
	var r jobRow
	err := s.Scan(
		&r.job.ID,
		&r.job.Status,
		&r.job.CreatedAt,
		&r.job.CompletedAt,
		&r.entry.DocumentID,
		&r.entry.Status,
		&r.entry.Error,
		&r.entry.FailedStage,
		&r.position,
		&r.entry.Filename,
	)
	return r, err
}

// group folds ordered rows into jobs, one entry per row.
func group(rows []jobRow) []Job {
	jobs := make([]Job, 0)
	for _, r := range rows {
		if n := len(jobs); n == 0 || jobs[n-1].ID != r.job.ID {
			jobs = append(jobs, r.job)
		}
		last := &jobs[len(jobs)-1]
		last.Documents = append(last.Documents, r.entry)
	}

	for i := range jobs {
		jobs[i].ProgressPct = jobs[i].Progress()
	}
	return jobs
}

type postgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore returns a Store backed by the jobs and job_documents tables.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) Store {
	return &postgresStore{
		db:     db,
		logger: logger.With("system", "jobs.store"),
	}
}

func (s *postgresStore) Create(ctx context.Context, job Job) error {
	_, err := repository.WithConn(ctx, s.db, func(conn *sql.Conn) (struct{}, error) {
		return repository.WithTx(ctx, conn, func(tx *sql.Tx) (struct{}, error) {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO jobs (id, status, created_at) VALUES ($1, $2, $3)",
				job.ID, job.Status, job.CreatedAt,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert job: %w", err)
			}

			for i, e := range job.Documents {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO job_documents (job_id, document_id, position, status)
					VALUES ($1, $2, $3, $4)`,
					job.ID, e.DocumentID, i, e.Status,
				); err != nil {
					return struct{}{}, fmt.Errorf("insert job document %s: %w", e.DocumentID, err)
				}
			}

			return struct{}{}, nil
		})
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	s.logger.Info("job created", "id", job.ID, "documents", len(job.Documents))
	return nil
}

func (s *postgresStore) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	return find(ctx, s.db, id)
}

func (s *postgresStore) List(ctx context.Context) ([]Job, error) {
	q, args := query.NewBuilder(projection).OrderByFields(jobOrder).Build()

	rows, err := repository.QueryMany(ctx, s.db, q, args, scanJobRow)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}

	return group(rows), nil
}

func (s *postgresStore) Record(ctx context.Context, jobID, documentID uuid.UUID, outcome Outcome) (*Job, error) {
	job, err := repository.WithConn(ctx, s.db, func(conn *sql.Conn) (*Job, error) {
		return repository.WithTx(ctx, conn, func(tx *sql.Tx) (*Job, error) {
			var status Status
			if err := tx.QueryRowContext(ctx,
				"SELECT status FROM jobs WHERE id = $1 FOR UPDATE", jobID,
			).Scan(&status); err != nil {
				return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
			}

			if err := repository.ExecExpectOne(ctx, tx, `
				UPDATE job_documents
				SET status = $1, error = $2, failed_stage = $3, finished_at = $4
				WHERE job_id = $5 AND document_id = $6`,
				outcome.Status, outcome.Error, outcome.FailedStage, time.Now().UTC(),
				jobID, documentID,
			); err != nil {
				return nil, repository.MapError(err, ErrEntryNotFound, ErrDuplicate)
			}

			if _, err := tx.ExecContext(ctx, `
				UPDATE jobs SET status = $1, completed_at = $2
				WHERE id = $3 AND status = $4
				AND NOT EXISTS (
					SELECT 1 FROM job_documents WHERE job_id = $3 AND status = $5
				)`,
				StatusCompleted, time.Now().UTC(), jobID, StatusProcessing, EntryPending,
			); err != nil {
				return nil, fmt.Errorf("complete job: %w", err)
			}

			return find(ctx, tx, jobID)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job entry recorded",
		"job_id", jobID,
		"document_id", documentID,
		"outcome", outcome.Status,
		"job_status", job.Status,
	)
	return job, nil
}

func find(ctx context.Context, q repository.Querier, id uuid.UUID) (*Job, error) {
	sqlStr, args := query.
		NewBuilder(projection).
		WhereEquals("ID", id).
		OrderByFields(jobOrder).
		Build()

	rows, err := repository.QueryMany(ctx, q, sqlStr, args, scanJobRow)
	if err != nil {
		return nil, fmt.Errorf("query job: %w", err)
	}

	jobs := group(rows)
	if len(jobs) == 0 {
		return nil, ErrNotFound
	}
	return &jobs[0], nil
}
