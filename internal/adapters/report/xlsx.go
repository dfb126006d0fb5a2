package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"reviewlens/internal/domain"
)

const (
	reviewsSheet = "Reviews"
	summarySheet = "Summary"
)

type XLSX struct{}

func (XLSX) Format() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Write puts one row per review on the Reviews sheet and the stats on a Summary sheet.
// Ratings and confidences stay numeric so they sort and sum in a spreadsheet.
func (XLSX) Write(w io.Writer, rep domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reviewsSheet); err != nil {
		return err
	}
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(reviewsSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(reviewsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range rep.Rows {
		var rating any
		if r.Rating != nil {
			rating = *r.Rating
		}
		row := []any{r.Date, rating, string(r.Sentiment), r.Confidence, r.Snippet, r.Product, r.Reviewer}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(reviewsSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(reviewsSheet, "E", "E", 60); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	for i, kv := range summaryLines(rep) {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		pair := []any{kv[0], kv[1]}
		if err := f.SetSheetRow(summarySheet, cell, &pair); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}
