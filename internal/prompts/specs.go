package prompts

const extractSpec = `Respond with a JSON object matching this exact structure:

{
  "supplier_name": "<string or null>",
  "material_type": "<string or null>",
  "quantity": <number, string, or null>,
  "unit": "<string or null>",
  "energy_source": "<string or null>",
  "energy_consumption": <number, string, or null>,
  "transport_mode": "<string or null>",
  "transport_distance_km": <number, string, or null>,
  "manufacturing_process": "<string or null>",
  "waste_generated": <number, string, or null>
}

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Use only the field names listed above
- Process exactly one page per response
- Set a field to null when it does not appear on this page`

const calculateSpec = `Respond with a JSON object matching this exact structure:

{
  "total_carbon_kg": <number>,
  "breakdown": [
    {
      "category": "<name>",
      "emission_factor": <number>,
      "quantity": <number>,
      "carbon_output": <number>,
      "unit": "kgCO2e"
    }
  ]
}

Field constraints:
- total_carbon_kg: Sum of carbon_output across every breakdown entry.
- breakdown: One entry per emission category that applies to the document.
  Omit categories with no supporting data.
- unit: Always "kgCO2e".

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Use emission factors from the provided reference index only`

const auditSpec = `Respond with a JSON object matching this exact structure:

{
  "hotspots": [
    {
      "category": "<name>",
      "carbon_output": <number>,
      "percentage_of_total": <number>,
      "severity": "<low|medium|high|critical>"
    }
  ],
  "recommendations": ["<recommendation>"],
  "total_emissions": <number>,
  "risk_level": "<low|medium|high|critical>"
}

Field constraints:
- hotspots: Highest-emission categories ordered from largest to smallest.
- percentage_of_total: Share of total_emissions between 0 and 100.
- total_emissions: Total carbon output in kgCO2e.
- risk_level: Exactly one of low, medium, high, critical.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Base every hotspot on a category present in the provided breakdown`

var specs = map[Stage]string{
	StageExtract:   extractSpec,
	StageCalculate: calculateSpec,
	StageAudit:     auditSpec,
}

// Spec returns the hardcoded specification for a pipeline stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
