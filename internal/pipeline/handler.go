package pipeline

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/pkg/handlers"
	"github.com/JaimeStill/footprint/pkg/routes"
)

// Finder looks up a document before a run is started.
type Finder interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
}

// Handler provides the HTTP endpoint that runs the pipeline synchronously.
type Handler struct {
	pipeline *Pipeline
	docs     Finder
	logger   *slog.Logger
}

// NewHandler creates a Handler for the given pipeline.
func NewHandler(p *Pipeline, docs Finder, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline: p,
		docs:     docs,
		logger:   logger.With("handler", "pipeline"),
	}
}

// Routes returns the route group definition for pipeline endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/analyze", Handler: h.Analyze},
		},
	}
}

// Analyze runs the pipeline for an uploaded document and returns the final state.
// A failed run still responds 200; the body carries error and failed_stage.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidID)
		return
	}

	if _, err := h.docs.Find(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	s := h.pipeline.Run(r.Context(), id)
	handlers.RespondJSON(w, http.StatusOK, s)
}
