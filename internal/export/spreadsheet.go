package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/khanhnv2901/nis2-assess/internal/report"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

var resultsHeader = []interface{}{"Section", "ID", "Question", "Answer", "Points", "Weight", "Score", "Comments"}

var resultsWidths = []float64{40, 8, 80, 30, 8, 10, 8, 40}

var summaryHeader = []interface{}{"Section", "Current Score", "Max Score", "Percentage (%)", "Risk Level"}

var summaryWidths = []float64{40, 15, 15, 12, 20}

// WriteSpreadsheet writes the results workbook: every answer on the Results
// sheet and per-section totals on the Summary sheet.
func WriteSpreadsheet(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename results sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("create wrap style: %w", err)
	}

	if err := writeResultsSheet(f, r, bold, wrap); err != nil {
		return err
	}
	if err := writeSummarySheet(f, r, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, r *report.Report, headerStyle, wrapStyle int) error {
	if err := setRow(f, ResultsSheet, 1, resultsHeader); err != nil {
		return err
	}
	if err := styleRow(f, ResultsSheet, 1, len(resultsHeader), headerStyle); err != nil {
		return err
	}

	row := 2
	for _, sec := range r.Sections {
		for _, q := range sec.Questions {
			values := []interface{}{sec.Title, q.ID, q.Text, q.Answer, q.Points, q.Weight, q.WeightedScore, q.Comments}
			if err := setRow(f, ResultsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(len(resultsHeader), row-1)
		if err := f.SetCellStyle(ResultsSheet, "A2", last, wrapStyle); err != nil {
			return fmt.Errorf("style results: %w", err)
		}
	}

	return setWidths(f, ResultsSheet, resultsWidths)
}

func writeSummarySheet(f *excelize.File, r *report.Report, headerStyle int) error {
	if err := setRow(f, SummarySheet, 1, []interface{}{"Results Summary"}); err != nil {
		return err
	}
	if err := setRow(f, SummarySheet, 3, summaryHeader); err != nil {
		return err
	}
	if err := styleRow(f, SummarySheet, 3, len(summaryHeader), headerStyle); err != nil {
		return err
	}

	row := 4
	for _, sec := range r.Sections {
		values := []interface{}{sec.Title, sec.Score.Current, sec.Score.Max, sec.Score.Percentage, sec.Risk.Label}
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
		row++
	}

	row++
	total := []interface{}{"TOTAL", r.Overall.Current, r.Overall.Max, r.Overall.Percentage, r.Risk.Label}
	if err := setRow(f, SummarySheet, row, total); err != nil {
		return err
	}
	if err := styleRow(f, SummarySheet, row, len(total), headerStyle); err != nil {
		return err
	}

	return setWidths(f, SummarySheet, summaryWidths)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("style %s row %d: %w", sheet, row, err)
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set %s column %s width: %w", sheet, col, err)
		}
	}
	return nil
}
