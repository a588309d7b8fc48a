package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/results"
)

type service struct {
	store  Store
	runner *Runner
	docs   Documents
	res    Results
	logger *slog.Logger
}

// New creates the job system.
func New(
	store Store,
	runner *Runner,
	docs Documents,
	res Results,
	logger *slog.Logger,
) System {
	return &service{
		store:  store,
		runner: runner,
		docs:   docs,
		res:    res,
		logger: logger.With("system", "jobs"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Submit(ctx context.Context, uploads []documents.CreateCommand) (*Submitted, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	job := Job{
		ID:        uuid.New(),
		Status:    StatusProcessing,
		Documents: make([]Entry, 0, len(uploads)),
		CreatedAt: time.Now().UTC(),
	}

	for _, cmd := range uploads {
		doc, err := s.docs.Create(ctx, cmd)
		if err != nil {
			s.discard(ctx, job)
			return nil, fmt.Errorf("store %s: %w", cmd.Filename, err)
		}

		job.Documents = append(job.Documents, Entry{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Status:     EntryPending,
		})
	}

	if err := s.store.Create(ctx, job); err != nil {
		s.discard(ctx, job)
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.runner.Start(job)

	s.logger.Info("job submitted", "id", job.ID, "documents", len(job.Documents))

	return &Submitted{
		JobID:     job.ID,
		Filenames: job.Filenames(),
		Documents: job.DocumentIDs(),
	}, nil
}

// discard removes documents stored for a submission that could not be recorded.
func (s *service) discard(ctx context.Context, job Job) {
	for _, id := range job.DocumentIDs() {
		if err := s.docs.Delete(ctx, id); err != nil {
			s.logger.Warn("discard document failed", "document_id", id, "error", err)
		}
	}
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Job, error) {
	return s.store.Find(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Job, error) {
	return s.store.List(ctx)
}

func (s *service) Results(ctx context.Context, id uuid.UUID) (*JobResults, error) {
	job, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status != StatusCompleted {
		return nil, ErrProcessing
	}

	out := &JobResults{
		JobID:     job.ID,
		Status:    job.Status,
		Documents: make([]DocumentResults, len(job.Documents)),
	}

	for i, e := range job.Documents {
		out.Documents[i].Entry = e

		r, err := s.res.FindByDocument(ctx, e.DocumentID)
		if errors.Is(err, results.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load results for %s: %w", e.DocumentID, err)
		}
		out.Documents[i].Results = r
	}

	return out, nil
}

func (s *service) Export(ctx context.Context, id uuid.UUID) ([]byte, error) {
	jr, err := s.Results(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := exportWorkbook(jr)
	if err != nil {
		return nil, err
	}

	s.logger.Info("job exported", "id", id, "documents", len(jr.Documents), "bytes", len(data))
	return data, nil
}
