// Package export writes screening outcomes as spreadsheets for auditors.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"fraudscreen/internal/screening"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"

	// ContentType is the MIME type of the written workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var resultHeadings = []any{
	"ID", "Name", "Application Date", "Aadhaar (last 4)", "Phone", "Bank Account",
	"GPS Lat", "GPS Long", "Risk Level", "Flag Count", "Flags", "Details",
}

// WriteXLSX writes a two-sheet workbook: one row per result, then the batch
// summary.
func WriteXLSX(w io.Writer, outcome screening.Outcome) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("name results sheet: %w", err)
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &resultHeadings); err != nil {
		return fmt.Errorf("write headings: %w", err)
	}
	for i, res := range outcome.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := resultRow(res)
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write result %s: %w", res.ID, err)
		}
	}
	if err := f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze headings: %w", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"Total", outcome.Summary.Total},
		{"High Risk", outcome.Summary.HighRisk},
		{"Medium Risk", outcome.Summary.MediumRisk},
		{"Low Risk", outcome.Summary.LowRisk},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func resultRow(res screening.Result) []any {
	types := make([]string, len(res.Flags))
	details := make([]string, len(res.Flags))
	for i, f := range res.Flags {
		types[i] = string(f.Type)
		details[i] = fmt.Sprintf("%s (%d%%)", f.Description, f.Confidence)
	}
	return []any{
		res.ID,
		res.Name,
		res.ApplicationDate,
		res.AadhaarLast4,
		res.Phone,
		res.BankAccount,
		floatCell(res.GPSLat),
		floatCell(res.GPSLong),
		string(res.RiskLevel),
		len(res.Flags),
		strings.Join(types, ", "),
		strings.Join(details, "; "),
	}
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
