// Package prompts implements the prompt override domain for footprint.
// Each pipeline stage has hardcoded default instructions and an immutable
// output specification; a named override stored in the database may replace
// the instructions for a stage while it is active.
package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Prompt represents a named instruction override for a pipeline stage.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
}

// Command is the writable part of a Prompt, used for both create and update.
// The active flag only changes through Activate and Deactivate.
type Command struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

func (c Command) Validate() error {
	if c.Stage == "" {
		return ErrInvalidStage
	}
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Instructions) == "" {
		return ErrMissingFields
	}
	return nil
}

// DecodeCommand reads and validates a Command from a JSON body.
func DecodeCommand(body io.Reader) (Command, error) {
	var cmd Command
	if err := json.NewDecoder(body).Decode(&cmd); err != nil {
		if errors.Is(err, ErrInvalidStage) {
			return cmd, err
		}
		return cmd, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return cmd, cmd.Validate()
}
