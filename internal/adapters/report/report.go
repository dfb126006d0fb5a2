// Package report writes review exports as csv, xlsx or docx.
package report

import (
	"strconv"

	"reviewlens/internal/domain"
)

// Columns is the export column order shared by every format.
var Columns = []string{"date", "rating", "sentiment", "confidence", "text", "product", "reviewer"}

func cells(r domain.ReportRow) []string {
	rating := ""
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	return []string{
		r.Date,
		rating,
		string(r.Sentiment),
		strconv.FormatFloat(r.Confidence, 'f', 3, 64),
		r.Snippet,
		r.Product,
		r.Reviewer,
	}
}

// Writers returns one writer per supported format.
func Writers() []domain.ReportWriter {
	return []domain.ReportWriter{CSV{}, XLSX{}, DOCX{}}
}
