package results

import (
	"errors"
	"net/http"
)

// Domain errors for result operations.
var (
	ErrNotFound  = errors.New("results not found")
	ErrDuplicate = errors.New("results already exist")
	ErrInvalidID = errors.New("invalid document id")
)

// MapHTTPStatus maps result domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidID) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
