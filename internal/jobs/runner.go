package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/footprint/internal/pipeline"
	"github.com/JaimeStill/footprint/pkg/events"
)

// Analyzer runs the pipeline for one document. *pipeline.Pipeline satisfies it.
type Analyzer interface {
	Run(ctx context.Context, documentID uuid.UUID) pipeline.State
}

// Runner drives the documents of submitted jobs through the pipeline in the
// background. Runs use the context given to NewRunner, so they stop when
// that context is cancelled rather than when the submitting request ends.
// Outcomes are recorded even after cancellation, so every job whose runs
// have returned leaves the processing state.
type Runner struct {
	ctx         context.Context
	store       Store
	analyzer    Analyzer
	publisher   events.Publisher
	maxParallel int
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewRunner creates a Runner bound to ctx, typically the lifecycle context.
func NewRunner(
	ctx context.Context,
	store Store,
	analyzer Analyzer,
	publisher events.Publisher,
	maxParallel int,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		ctx:         ctx,
		store:       store,
		analyzer:    analyzer,
		publisher:   publisher,
		maxParallel: max(maxParallel, 1),
		logger:      logger.With("system", "jobs.runner"),
	}
}

// Start begins processing job in the background and returns immediately.
func (r *Runner) Start(job Job) {
	r.wg.Go(func() {
		r.run(r.ctx, job)
	})
}

// Wait blocks until every started job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(ctx context.Context, job Job) {
	// A cancelled run still has an outcome to store.
	record := context.WithoutCancel(ctx)

	r.logger.InfoContext(ctx, "job started",
		"job_id", job.ID,
		"documents", len(job.Documents),
	)

	g := new(errgroup.Group)
	g.SetLimit(r.maxParallel)

	for _, id := range job.DocumentIDs() {
		g.Go(func() error {
			s := r.analyzer.Run(ctx, id)

			if _, err := r.store.Record(record, job.ID, id, OutcomeOf(s)); err != nil {
				r.logger.ErrorContext(record, "record job entry failed",
					"job_id", job.ID,
					"document_id", id,
					"error", err,
				)
			}
			return nil
		})
	}

	g.Wait()

	final, err := r.store.Find(record, job.ID)
	if err != nil {
		r.logger.ErrorContext(record, "load finished job failed", "job_id", job.ID, "error", err)
		return
	}

	r.logger.InfoContext(record, "job finished",
		"job_id", job.ID,
		"status", final.Status,
		"progress_pct", final.ProgressPct,
	)

	if final.Status != StatusCompleted {
		return
	}

	if err := r.publisher.Publish(record, events.Event{
		Type:    events.TypeJobCompleted,
		Key:     job.ID.String(),
		Payload: final,
	}); err != nil {
		r.logger.WarnContext(record, "publish job completion failed", "job_id", job.ID, "error", err)
	}
}
