package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/pkg/formatting"
)

// invoke sends a composed prompt to the inference service and decodes the
// response into T. A response that cannot be parsed or does not satisfy
// the contract is replaced by fallback(raw) and logged; it is never an error.
// Inference errors are returned as-is.
func invoke[T any](
	ctx context.Context,
	rt *Runtime,
	stage prompts.Stage,
	prompt string,
	images []string,
	c contract,
	fallback func(raw string) T,
) (T, error) {
	var (
		content string
		err     error
	)

	if len(images) > 0 {
		content, err = rt.Inference.Vision(ctx, prompt, images)
	} else {
		content, err = rt.Inference.Chat(ctx, prompt)
	}
	if err != nil {
		var zero T
		return zero, err
	}

	out, err := decode[T](content, c)
	if err != nil {
		rt.Logger.WarnContext(
			ctx, "malformed inference response",
			"stage", stage,
			"error", err,
		)
		return fallback(content), nil
	}

	return out, nil
}

func decode[T any](content string, c contract) (T, error) {
	var out T

	parsed, err := formatting.Parse[any](content)
	if err != nil {
		return out, err
	}

	if c.normalize != nil {
		c.normalize(parsed)
	}

	if err := c.schema.Validate(parsed); err != nil {
		return out, fmt.Errorf("validate response: %w", err)
	}

	data, err := json.Marshal(parsed)
	if err != nil {
		return out, fmt.Errorf("marshal response: %w", err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}

	return out, nil
}
