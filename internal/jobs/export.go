package jobs

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetDocuments = "Documents"
	SheetEmissions = "Emissions"
	SheetHotspots  = "Hotspots"
)

var (
	documentHeaders = []string{
		"Document ID", "Filename", "Status", "Failed Stage", "Error",
		"Total Carbon (kg)", "Risk Level", "Recommendations",
	}
	emissionHeaders = []string{
		"Filename", "Category", "Emission Factor", "Quantity", "Carbon Output", "Unit",
	}
	hotspotHeaders = []string{
		"Filename", "Category", "Carbon Output", "Percentage of Total", "Severity",
	}
)

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, name string, headers []string) (*sheetWriter, error) {
	if _, err := f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", name, err)
	}

	w := &sheetWriter{f: f, sheet: name, row: 1}
	if err := w.write(toCells(headers)...); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *sheetWriter) write(values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			return fmt.Errorf("write %s!%s: %w", w.sheet, cell, err)
		}
	}
	w.row++
	return nil
}

func toCells(headers []string) []any {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	return cells
}

func exportWorkbook(jr *JobResults) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	docs, err := newSheet(f, SheetDocuments, documentHeaders)
	if err != nil {
		return nil, err
	}
	emissions, err := newSheet(f, SheetEmissions, emissionHeaders)
	if err != nil {
		return nil, err
	}
	hotspots, err := newSheet(f, SheetHotspots, hotspotHeaders)
	if err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(SheetDocuments); err == nil {
		f.SetActiveSheet(idx)
	}

	for _, d := range jr.Documents {
		var (
			total           any
			risk            string
			recommendations string
		)

		if d.Results != nil && d.Results.Calculation != nil {
			total = d.Results.Calculation.TotalCarbonKG
			for _, e := range d.Results.Calculation.Breakdown {
				if err := emissions.write(
					d.Filename, e.Category, e.EmissionFactor, e.Quantity, e.CarbonOutput, e.Unit,
				); err != nil {
					return nil, err
				}
			}
		}

		if d.Results != nil && d.Results.Audit != nil {
			risk = d.Results.Audit.RiskLevel
			recommendations = strings.Join(d.Results.Audit.Recommendations, "\n")
			for _, h := range d.Results.Audit.Hotspots {
				if err := hotspots.write(
					d.Filename, h.Category, h.CarbonOutput, h.PercentageOfTotal, h.Severity,
				); err != nil {
					return nil, err
				}
			}
		}

		if err := docs.write(
			d.DocumentID.String(), d.Filename, string(d.Status), d.FailedStage, d.Error,
			total, risk, recommendations,
		); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(SheetDocuments, "A", "A", 38)
	_ = f.SetColWidth(SheetDocuments, "B", "B", 32)
	_ = f.SetColWidth(SheetDocuments, "E", "E", 40)
	_ = f.SetColWidth(SheetDocuments, "H", "H", 60)
	_ = f.SetColWidth(SheetEmissions, "A", "B", 28)
	_ = f.SetColWidth(SheetHotspots, "A", "B", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	return buf.Bytes(), nil
}
