package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/internal/results"
)

// AuditNode reviews the calculation for hotspots, assigns a risk level,
// and produces reduction recommendations. It marks the document completed.
func AuditNode(rt *Runtime) Node {
	return &stage[results.Audit]{
		name:   NodeAudit,
		status: documents.StatusCompleted,
		done:   func(s State) bool { return s.Audit != nil },
		step: func(ctx context.Context, s State) (results.Audit, error) {
			return audit(ctx, rt, s.Calculation)
		},
		persist: rt.Results.SaveAudit,
		attach:  State.WithAudit,
		docs:    rt.Documents,
		logger:  rt.Logger.With("node", NodeAudit),
	}
}

func audit(ctx context.Context, rt *Runtime, c *results.Calculation) (results.Audit, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return results.Audit{}, fmt.Errorf("serialize calculation: %w", err)
	}

	payload := jsonSection(
		"Carbon Footprint Data", data,
		"Analyze and produce the audit report.",
	)

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageAudit, payload)
	if err != nil {
		return results.Audit{}, err
	}

	a, err := invoke(
		ctx, rt, prompts.StageAudit, prompt, nil,
		auditContract, auditFallback(c.TotalCarbonKG),
	)
	if err != nil {
		return results.Audit{}, err
	}

	if a.Hotspots == nil {
		a.Hotspots = []results.Hotspot{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}

	return a, nil
}

func auditFallback(total float64) func(string) results.Audit {
	return func(raw string) results.Audit {
		return results.Audit{
			Hotspots:        []results.Hotspot{},
			Recommendations: []string{},
			TotalEmissions:  total,
			RiskLevel:       results.RiskUnknown,
			Raw:             raw,
		}
	}
}
