package prompts

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/handlers"
	"github.com/JaimeStill/footprint/pkg/pagination"
	"github.com/JaimeStill/footprint/pkg/routes"
)

// Handler serves /prompts: override records plus the effective prompt
// text per stage.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest is the POST /prompts/search body.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// StagePrompt is what a stage is composed from: the effective
// instructions (active override or default) and the fixed output spec.
type StagePrompt struct {
	Stage        Stage  `json:"stage"`
	Instructions string `json:"instructions"`
	Spec         string `json:"spec"`
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/{id}/deactivate", Handler: h.Deactivate},
		},
		Children: []routes.Group{
			{
				Prefix: "/stages",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Stages},
					{Method: "GET", Pattern: "/{stage}", Handler: h.Stage},
				},
			},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, pagination.PageRequestFromQuery(q, h.pagination), FiltersFromQuery(q))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, ErrInvalidBody)
		return
	}
	req.PageRequest.Normalize(h.pagination)
	h.list(w, r, req.PageRequest, req.Filters)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, page pagination.PageRequest, filters Filters) {
	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

func (h *Handler) Stage(w http.ResponseWriter, r *http.Request) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		h.fail(w, err)
		return
	}

	out := StagePrompt{Stage: stage}
	if out.Instructions, err = h.sys.Instructions(r.Context(), stage); err != nil {
		h.fail(w, err)
		return
	}
	if out.Spec, err = h.sys.Spec(r.Context(), stage); err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Find)
}

// Create stores a new override. It starts inactive.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cmd, err := DecodeCommand(r.Body)
	if err != nil {
		h.fail(w, err)
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, func(ctx context.Context, id uuid.UUID) (*Prompt, error) {
		cmd, err := DecodeCommand(r.Body)
		if err != nil {
			return nil, err
		}
		return h.sys.Update(ctx, id, cmd)
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Activate replaces whatever override was active for the prompt's stage.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Activate)
}

// Deactivate drops the stage back to its default instructions.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, http.StatusOK, h.sys.Deactivate)
}

// withID parses the {id} path value, runs fn and writes the prompt it
// returns with status.
func (h *Handler) withID(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	fn func(ctx context.Context, id uuid.UUID) (*Prompt, error),
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return
	}

	p, err := fn(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, status, p)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
