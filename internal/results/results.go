// Package results implements the analysis result domain for footprint.
// It defines the typed outputs of the extract, calculate, and audit stages
// and persists them to the extracted_fields, carbon_results,
// carbon_summaries, and audit_reports tables.
package results

import (
	"time"

	"github.com/google/uuid"
)

// RawResponseKey is the JSON key that carries an unparsed inference response.
const RawResponseKey = "_raw_response"

// UnitKgCO2e is the default unit for emission entries.
const UnitKgCO2e = "kgCO2e"

// RiskUnknown marks an audit whose response could not be parsed.
const RiskUnknown = "unknown"

// ExtractionFields lists the fields the extract stage reads from a document.
var ExtractionFields = []string{
	"supplier_name",
	"material_type",
	"quantity",
	"unit",
	"energy_source",
	"energy_consumption",
	"transport_mode",
	"transport_distance_km",
	"manufacturing_process",
	"waste_generated",
}

// Extraction is the merged output of per-page field extraction.
// Raw holds the verbatim text of any page response that could not be parsed.
type Extraction struct {
	Fields map[string]string `json:"fields"`
	Pages  int               `json:"pages,omitempty"`
	Raw    []string          `json:"_raw_response,omitempty"`
}

// Emission is one category row of a carbon calculation.
type Emission struct {
	Category       string  `json:"category"`
	EmissionFactor float64 `json:"emission_factor"`
	Quantity       float64 `json:"quantity"`
	CarbonOutput   float64 `json:"carbon_output"`
	Unit           string  `json:"unit"`
}

// Calculation is the carbon calculation output.
type Calculation struct {
	TotalCarbonKG float64    `json:"total_carbon_kg"`
	Breakdown     []Emission `json:"breakdown"`
	Raw           string     `json:"_raw_response,omitempty"`
}

// Hotspot is a high-emission category identified by the audit.
type Hotspot struct {
	Category          string  `json:"category"`
	CarbonOutput      float64 `json:"carbon_output"`
	PercentageOfTotal float64 `json:"percentage_of_total"`
	Severity          string  `json:"severity"`
}

// Audit is the audit stage output.
type Audit struct {
	Hotspots        []Hotspot `json:"hotspots"`
	Recommendations []string  `json:"recommendations"`
	TotalEmissions  float64   `json:"total_emissions"`
	RiskLevel       string    `json:"risk_level"`
	Raw             string    `json:"_raw_response,omitempty"`
}

// Results gathers every stored stage output for a document.
// Stages that have not produced output are nil.
type Results struct {
	DocumentID  uuid.UUID    `json:"document_id"`
	Extraction  *Extraction  `json:"extraction"`
	Calculation *Calculation `json:"calculation"`
	Audit       *Audit       `json:"audit"`
}

// AuditSummary is a listing row for stored audit reports.
type AuditSummary struct {
	ID             uuid.UUID `json:"id"`
	DocumentID     uuid.UUID `json:"document_id"`
	Filename       string    `json:"filename"`
	TotalEmissions float64   `json:"total_emissions"`
	RiskLevel      string    `json:"risk_level"`
	CreatedAt      time.Time `json:"created_at"`
}
