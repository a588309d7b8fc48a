package pipeline

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const extractSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "supplier_name":         {"$ref": "#/$defs/scalar"},
    "material_type":         {"$ref": "#/$defs/scalar"},
    "quantity":              {"$ref": "#/$defs/scalar"},
    "unit":                  {"$ref": "#/$defs/scalar"},
    "energy_source":         {"$ref": "#/$defs/scalar"},
    "energy_consumption":    {"$ref": "#/$defs/scalar"},
    "transport_mode":        {"$ref": "#/$defs/scalar"},
    "transport_distance_km": {"$ref": "#/$defs/scalar"},
    "manufacturing_process": {"$ref": "#/$defs/scalar"},
    "waste_generated":       {"$ref": "#/$defs/scalar"}
  },
  "$defs": {
    "scalar": {"type": ["string", "number", "boolean", "null"]}
  }
}`

const calculateSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["total_carbon_kg", "breakdown"],
  "properties": {
    "total_carbon_kg": {"type": "number"},
    "breakdown": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "carbon_output"],
        "properties": {
          "category":        {"type": "string"},
          "emission_factor": {"type": "number"},
          "quantity":        {"type": "number"},
          "carbon_output":   {"type": "number"},
          "unit":            {"type": "string"}
        }
      }
    }
  }
}`

const auditSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["hotspots", "recommendations", "total_emissions", "risk_level"],
  "properties": {
    "hotspots": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "carbon_output"],
        "properties": {
          "category":            {"type": "string"},
          "carbon_output":       {"type": "number"},
          "percentage_of_total": {"type": "number"},
          "severity":            {"$ref": "#/$defs/level"}
        }
      }
    },
    "recommendations": {
      "type": "array",
      "items": {"type": "string"}
    },
    "total_emissions": {"type": "number"},
    "risk_level":      {"$ref": "#/$defs/level"}
  },
  "$defs": {
    "level": {"enum": ["low", "medium", "high", "critical"]}
  }
}`

// contract is what a stage response must satisfy. normalize, when set,
// rewrites the parsed response in place before it is validated.
type contract struct {
	schema    *jsonschema.Schema
	normalize func(v any)
}

var (
	extractContract = contract{
		schema: jsonschema.MustCompileString("extract.json", extractSchemaJSON),
	}
	calculateContract = contract{
		schema: jsonschema.MustCompileString("calculate.json", calculateSchemaJSON),
	}
	auditContract = contract{
		schema:    jsonschema.MustCompileString("audit.json", auditSchemaJSON),
		normalize: lowerLevels,
	}
)

// lowerLevels folds risk_level and each hotspot severity to lower case,
// so "High" validates as "high".
func lowerLevels(v any) {
	report, ok := v.(map[string]any)
	if !ok {
		return
	}
	lowerField(report, "risk_level")

	hotspots, _ := report["hotspots"].([]any)
	for _, h := range hotspots {
		if hotspot, ok := h.(map[string]any); ok {
			lowerField(hotspot, "severity")
		}
	}
}

func lowerField(m map[string]any, key string) {
	if s, ok := m[key].(string); ok {
		m[key] = strings.ToLower(strings.TrimSpace(s))
	}
}
