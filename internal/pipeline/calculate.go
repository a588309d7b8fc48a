package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/footprint/internal/documents"
	"github.com/JaimeStill/footprint/internal/prompts"
	"github.com/JaimeStill/footprint/internal/results"
)

// CalculateNode maps the extracted fields onto the emission factor index
// and computes per-category and total carbon output.
func CalculateNode(rt *Runtime) Node {
	return &stage[results.Calculation]{
		name:   NodeCalculate,
		status: documents.StatusAuditing,
		done:   func(s State) bool { return s.Calculation != nil },
		step: func(ctx context.Context, s State) (results.Calculation, error) {
			return calculate(ctx, rt, s.Extraction)
		},
		persist: rt.Results.SaveCalculation,
		attach:  State.WithCalculation,
		docs:    rt.Documents,
		logger:  rt.Logger.With("node", NodeCalculate),
	}
}

func calculate(ctx context.Context, rt *Runtime, e *results.Extraction) (results.Calculation, error) {
	fields, err := json.MarshalIndent(e.Fields, "", "  ")
	if err != nil {
		return results.Calculation{}, fmt.Errorf("serialize extraction: %w", err)
	}

	payload := jsonSection("Extracted Fields", fields, "") +
		"\n\n" +
		jsonSection(
			"Carbon Emission Factor Reference Index", rt.Factors,
			"Calculate the carbon footprint.",
		)

	prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageCalculate, payload)
	if err != nil {
		return results.Calculation{}, err
	}

	c, err := invoke(
		ctx, rt, prompts.StageCalculate, prompt, nil,
		calculateContract, calculationFallback,
	)
	if err != nil {
		return results.Calculation{}, err
	}

	return normalizeCalculation(c), nil
}

func calculationFallback(raw string) results.Calculation {
	return results.Calculation{
		TotalCarbonKG: 0,
		Breakdown:     []results.Emission{},
		Raw:           raw,
	}
}

func normalizeCalculation(c results.Calculation) results.Calculation {
	if c.Breakdown == nil {
		c.Breakdown = []results.Emission{}
	}
	for i := range c.Breakdown {
		if c.Breakdown[i].Unit == "" {
			c.Breakdown[i].Unit = results.UnitKgCO2e
		}
	}
	return c
}
