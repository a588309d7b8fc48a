package prompts

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("prompt not found")
	ErrDuplicate     = errors.New("prompt name already exists")
	ErrInvalidID     = errors.New("invalid prompt id")
	ErrInvalidStage  = errors.New("stage must be extract, calculate, or audit")
	ErrInvalidBody   = errors.New("invalid request body")
	ErrMissingFields = errors.New("prompt name and instructions are required")
)

var statusFor = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrDuplicate, http.StatusConflict},
	{ErrInvalidID, http.StatusBadRequest},
	{ErrInvalidStage, http.StatusBadRequest},
	{ErrInvalidBody, http.StatusBadRequest},
	{ErrMissingFields, http.StatusBadRequest},
}

// MapHTTPStatus returns 500 for anything that is not a prompt error.
func MapHTTPStatus(err error) int {
	for _, s := range statusFor {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}
