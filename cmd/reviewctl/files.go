package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"reviewlens/internal/app"
	"reviewlens/internal/domain"
	"reviewlens/internal/sentiment"
)

// readReviews accepts a JSON array of review objects or {"reviews": [...]}.
func readReviews(path string) ([]domain.RawReview, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeReviews(bytes.TrimSpace(b))
}

func decodeReviews(b []byte) ([]domain.RawReview, error) {
	var list []domain.RawReview
	if len(b) > 0 && b[0] == '[' {
		if err := json.Unmarshal(b, &list); err != nil {
			return nil, fmt.Errorf("decode reviews: %w", err)
		}
		return list, nil
	}
	var wrapped struct {
		Reviews []domain.RawReview `json:"reviews"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return wrapped.Reviews, nil
}

// readTexts reads review texts for batch analysis. JSON files may hold plain strings or review
// objects (metadata is kept for the latter); anything else is one review per line.
func readTexts(path string) ([]string, []domain.RawReview, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) > 0 && (b[0] == '[' || b[0] == '{') {
		var strs []string
		if err := json.Unmarshal(b, &strs); err == nil {
			return strs, nil, nil
		}
		raws, err := decodeReviews(b)
		if err != nil {
			return nil, nil, err
		}
		var texts []string
		var meta []domain.RawReview
		for i, r := range app.MapReviews(raws) {
			if t := strings.TrimSpace(r.Text()); t != "" {
				texts = append(texts, t)
				meta = append(meta, raws[i])
			}
		}
		return texts, meta, nil
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return sentiment.BatchCleanReviews(lines), nil, nil
}
