package jobs

import (
	"errors"
	"net/http"
)

// Domain errors for job operations.
var (
	ErrNotFound      = errors.New("job not found")
	ErrDuplicate     = errors.New("job already exists")
	ErrEntryNotFound = errors.New("document is not part of job")
	ErrNoFiles       = errors.New("no files provided")
	ErrInvalidID     = errors.New("invalid job id")
	ErrProcessing    = errors.New("job is still processing")
)

// MapHTTPStatus maps job domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEntryNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoFiles) || errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrProcessing) {
		return http.StatusAccepted
	}
	return http.StatusInternalServerError
}
