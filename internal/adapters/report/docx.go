package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gingfrederik/docx"

	"reviewlens/internal/domain"
)

type DOCX struct{}

func (DOCX) Format() string { return "docx" }
func (DOCX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Write lays out a heading, the stats block, the top topics and one paragraph per review.
func (DOCX) Write(w io.Writer, rep domain.Report) error {
	f := docx.NewFile()

	f.AddParagraph().AddText(rep.Title).Size(20)
	f.AddParagraph().AddText("Generated " + rep.GeneratedAt.Format("2006-01-02 15:04 MST")).Size(10).Color("808080")
	f.AddParagraph() // Spacer

	f.AddParagraph().AddText("Summary").Size(16)
	for _, kv := range summaryLines(rep) {
		f.AddParagraph().AddText(fmt.Sprintf("%s: %v", kv[0], kv[1]))
	}
	f.AddParagraph()

	f.AddParagraph().AddText("Reviews").Size(16)
	for _, r := range rep.Rows {
		c := cells(r)
		meta := []string{c[0]}
		if c[1] != "" {
			meta = append(meta, c[1]+"/5")
		}
		meta = append(meta, c[2])
		if r.Product != "" {
			meta = append(meta, r.Product)
		}
		if r.Reviewer != "" {
			meta = append(meta, r.Reviewer)
		}
		f.AddParagraph().AddText(strings.Join(meta, " | ")).Size(10).Color(sentimentColor(r.Sentiment))
		f.AddParagraph().AddText(r.Snippet)
	}

	// the docx library only saves to a path
	dir, err := os.MkdirTemp("", "reviewlens-docx-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "report.docx")
	if err := f.Save(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

func sentimentColor(s domain.Sentiment) string {
	switch s {
	case domain.SentimentPositive:
		return "008000"
	case domain.SentimentNegative:
		return "C00000"
	}
	return "808080"
}
