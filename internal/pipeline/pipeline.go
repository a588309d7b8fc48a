// Package pipeline implements the document analysis pipeline for footprint.
// A run threads an immutable State through a fixed sequence of nodes
// (router → extract → calculate → audit). Each node skips when an earlier
// node has failed, so a run always ends with either an audit or an error.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Pipeline runs the fixed node sequence against a document.
// It holds no per-run state and is safe for concurrent use.
type Pipeline struct {
	nodes  []Node
	logger *slog.Logger
}

// New builds the pipeline from the given runtime.
func New(rt *Runtime) *Pipeline {
	return &Pipeline{
		nodes: []Node{
			RouterNode(rt),
			ExtractNode(rt),
			CalculateNode(rt),
			AuditNode(rt),
		},
		logger: rt.Logger.With("system", "pipeline"),
	}
}

// Nodes returns the node names in execution order.
func (p *Pipeline) Nodes() []string {
	names := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		names[i] = n.Name()
	}
	return names
}

// Run applies every node in order and returns the final state.
// Failures are reported through State.Error, never as a Go error.
func (p *Pipeline) Run(ctx context.Context, documentID uuid.UUID) State {
	s := NewState(documentID)

	for _, n := range p.nodes {
		s = n.Apply(ctx, s)
	}

	if s.Failed() {
		p.logger.WarnContext(
			ctx, "pipeline run failed",
			"document_id", documentID,
			"failed_stage", s.FailedStage,
			"error", s.Error,
		)
	} else {
		p.logger.InfoContext(
			ctx, "pipeline run complete",
			"document_id", documentID,
			"risk_level", s.Audit.RiskLevel,
		)
	}

	return s
}
