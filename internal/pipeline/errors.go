package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline operations.
var (
	ErrFieldSet       = errors.New("state field already set")
	ErrRenderFailed   = errors.New("failed to render page images")
	ErrInvalidFactors = errors.New("invalid emission factor index")
)

func fieldSet(field string) error {
	return fmt.Errorf("%w: %s", ErrFieldSet, field)
}
