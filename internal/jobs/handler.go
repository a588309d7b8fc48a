package jobs

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/pkg/handlers"
	"github.com/JaimeStill/footprint/pkg/routes"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler provides HTTP endpoints for job operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "jobs"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for job endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/jobs",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Submit},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/results", Handler: h.Results},
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
		},
	}
}

// Submit accepts one or more PDFs in the multipart "files" field and starts a job.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := documents.ParseUpload(w, r, h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	uploads := make([]documents.CreateCommand, 0, len(headers))
	for _, fh := range headers {
		cmd, err := documents.ReadUpload(fh, h.logger)
		if err != nil {
			handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
			return
		}
		uploads = append(uploads, cmd)
	}

	submitted, err := h.sys.Submit(r.Context(), uploads)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, submitted)
}

// List returns every job, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, jobs)
}

// Find returns a job's status, progress, and per-document entries.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	job, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, job)
}

// Results returns the stored outputs of a completed job.
// While the job is processing it responds 202 with the job status.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	job, ok := h.completed(w, r)
	if !ok {
		return
	}

	res, err := h.sys.Results(r.Context(), job.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, res)
}

// Export streams a completed job's results as an XLSX workbook.
// While the job is processing it responds 202 with the job status.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	job, ok := h.completed(w, r)
	if !ok {
		return
	}

	data, err := h.sys.Export(r.Context(), job.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "footprint-"+job.ID.String()+".xlsx"),
	)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// completed resolves the job in the request path and writes the response
// itself unless the job has completed.
func (h *Handler) completed(w http.ResponseWriter, r *http.Request) (*Job, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return nil, false
	}

	job, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	if job.Status != StatusCompleted {
		handlers.RespondJSON(w, http.StatusAccepted, job)
		return nil, false
	}

	return job, true
}
