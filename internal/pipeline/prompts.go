package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/footprint/internal/prompts"
)

// Prompts supplies the tunable instructions and fixed output spec for a stage.
// prompts.System satisfies it.
type Prompts interface {
	Instructions(ctx context.Context, stage prompts.Stage) (string, error)
	Spec(ctx context.Context, stage prompts.Stage) (string, error)
}

// ComposePrompt builds a stage prompt from its instructions, its output
// specification, and an optional payload describing the input data.
func ComposePrompt(
	ctx context.Context,
	ps Prompts,
	stage prompts.Stage,
	payload string,
) (string, error) {
	instructions, err := ps.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := ps.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != "" {
		sb.WriteString("\n\n")
		sb.WriteString(payload)
	}

	return sb.String(), nil
}

func jsonSection(title string, body []byte, closing string) string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(title)
	sb.WriteString("\n```json\n")
	sb.Write(body)
	sb.WriteString("\n```")
	if closing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(closing)
	}
	return sb.String()
}
