package pipeline

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Inference is the boundary to the language model service.
// Chat sends a text prompt; Vision sends a prompt with image data URIs.
// Both return the raw response text.
type Inference interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Vision(ctx context.Context, prompt string, images []string) (string, error)
}

type agentInference struct {
	cfg gaconfig.AgentConfig
}

// NewAgentInference returns an Inference backed by go-agents.
// A new agent is created per call so concurrent page requests share no client state.
func NewAgentInference(cfg gaconfig.AgentConfig) Inference {
	return &agentInference{cfg: cfg}
}

func (a *agentInference) Chat(ctx context.Context, prompt string) (string, error) {
	ag, err := agent.New(&a.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}

	return resp.Content(), nil
}

func (a *agentInference) Vision(ctx context.Context, prompt string, images []string) (string, error) {
	ag, err := agent.New(&a.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Vision(ctx, prompt, images)
	if err != nil {
		return "", err
	}

	return resp.Content(), nil
}
