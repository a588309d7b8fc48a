package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/config"
)

// Store persists jobs and their per-document outcomes.
// Record marks one document finished and returns the updated job; the
// record that finishes the last document flips the job to completed.
type Store interface {
	Create(ctx context.Context, job Job) error
	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	List(ctx context.Context) ([]Job, error)
	Record(ctx context.Context, jobID, documentID uuid.UUID, outcome Outcome) (*Job, error)
}

// NewStore returns the store selected by cfg.Store.
func NewStore(cfg *config.JobsConfig, db *sql.DB, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.JobStoreMemory:
		return NewMemoryStore(), nil
	case config.JobStorePostgres:
		return NewPostgresStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown job store: %s", cfg.Store)
	}
}

// record applies outcome to the matching entry and completes the job once
// every entry has finished.
func record(job *Job, documentID uuid.UUID, outcome Outcome, at time.Time) error {
	i := slices.IndexFunc(job.Documents, func(e Entry) bool {
		return e.DocumentID == documentID
	})
	if i < 0 {
		return ErrEntryNotFound
	}

	job.Documents[i].Status = outcome.Status
	job.Documents[i].Error = outcome.Error
	job.Documents[i].FailedStage = outcome.FailedStage

	if job.Status == StatusProcessing && job.allFinished() {
		job.Status = StatusCompleted
		job.CompletedAt = &at
	}

	return nil
}
