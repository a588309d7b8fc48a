package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
)

// Node names, recorded in State.FailedStage.
const (
	NodeRouter    = "router"
	NodeExtract   = "extract"
	NodeCalculate = "calculate"
	NodeAudit     = "audit"
)

// Node is one step of the pipeline. Apply never fails: errors are
// recorded in the returned State.
type Node interface {
	Name() string
	Apply(ctx context.Context, s State) State
}

// stage is the shared skeleton of every node: skip when the state has
// failed or the output already exists, run the step, persist its output,
// advance the document status, and attach the output to the state.
type stage[T any] struct {
	name    string
	status  documents.Status
	done    func(State) bool
	step    func(ctx context.Context, s State) (T, error)
	persist func(ctx context.Context, documentID uuid.UUID, out T) error
	attach  func(s State, out T) (State, error)

	docs   Documents
	logger *slog.Logger
}

func (n *stage[T]) Name() string {
	return n.name
}

func (n *stage[T]) Apply(ctx context.Context, s State) State {
	if s.Failed() || n.done(s) {
		return s
	}

	out, err := n.step(ctx, s)
	if err != nil {
		return n.fail(ctx, s, err)
	}

	if n.persist != nil {
		if err := n.persist(ctx, s.DocumentID, out); err != nil {
			return n.fail(ctx, s, err)
		}
	}

	if err := n.docs.UpdateStatus(ctx, s.DocumentID, n.status); err != nil {
		return n.fail(ctx, s, err)
	}

	next, err := n.attach(s, out)
	if err != nil {
		return n.fail(ctx, s, err)
	}

	n.logger.InfoContext(
		ctx, "node complete",
		"document_id", s.DocumentID,
		"status", n.status,
	)

	return next
}

func (n *stage[T]) fail(ctx context.Context, s State, err error) State {
	n.logger.ErrorContext(
		ctx, "node failed",
		"document_id", s.DocumentID,
		"error", err,
	)
	return s.WithError(n.name, err)
}
