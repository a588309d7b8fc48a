package results

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/footprint/pkg/query"
	"github.com/JaimeStill/footprint/pkg/repository"
)

var auditProjection = query.
	NewProjectionMap("public", "audit_reports", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("total_emissions", "TotalEmissions").
	Project("risk_level", "RiskLevel").
	Project("created_at", "CreatedAt").
	Join("public", "documents", "d", "JOIN", "d.id = a.document_id").
	Project("filename", "Filename")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows the audit listing. Nil fields are ignored.
// MinEmissions keeps reports whose total is at least the given kg CO2e.
type Filters struct {
	RiskLevel    *string  `json:"risk_level,omitempty"`
	Filename     *string  `json:"filename,omitempty"`
	MinEmissions *float64 `json:"min_emissions,omitempty"`
}

func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("RiskLevel", f.RiskLevel).
		WhereContains("Filename", f.Filename).
		WhereRange("TotalEmissions", f.MinEmissions, nil)
}

// FiltersFromQuery reads risk_level, filename and min_emissions.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if level := values.Get("risk_level"); level != "" {
		f.RiskLevel = &level
	}
	if name := values.Get("filename"); name != "" {
		f.Filename = &name
	}
	if v, err := strconv.ParseFloat(values.Get("min_emissions"), 64); err == nil {
		f.MinEmissions = &v
	}

	return f
}

func scanAuditSummary(s repository.Scanner) (AuditSummary, error) {
	var a AuditSummary
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.TotalEmissions,
		&a.RiskLevel,
		&a.CreatedAt,
		&a.Filename,
	)
	return a, err
}

type fieldRow struct {
	name  string
	value string
}

func scanFieldRow(s repository.Scanner) (fieldRow, error) {
	var f fieldRow
	err := s.Scan(&f.name, &f.value)
	return f, err
}

func scanEmission(s repository.Scanner) (Emission, error) {
	var e Emission
	err := s.Scan(
		&e.Category,
		&e.EmissionFactor,
		&e.Quantity,
		&e.CarbonOutput,
		&e.Unit,
	)
	return e, err
}

func scanAudit(s repository.Scanner) (Audit, error) {
	var (
		a               Audit
		hotspots        []byte
		recommendations []byte
		raw             *string
	)

	err := s.Scan(
		&hotspots,
		&recommendations,
		&a.TotalEmissions,
		&a.RiskLevel,
		&raw,
	)
	if err != nil {
		return a, err
	}

	if err := json.Unmarshal(hotspots, &a.Hotspots); err != nil {
		return a, fmt.Errorf("unmarshal hotspots: %w", err)
	}
	if err := json.Unmarshal(recommendations, &a.Recommendations); err != nil {
		return a, fmt.Errorf("unmarshal recommendations: %w", err)
	}
	if raw != nil {
		a.Raw = *raw
	}

	return a, nil
}
