package sentiment

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

type feature struct {
	idx int
	val float64
}

// vector is a sparse row sorted by feature index.
type vector []feature

// vectorizer is a unigram+bigram TF-IDF model with smoothed idf and L2-normalised rows.
type vectorizer struct {
	vocab map[string]int
	idf   []float64
}

func analyze(text string) []string {
	var toks []string
	for _, t := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[t]; !stop {
			toks = append(toks, t)
		}
	}
	grams := make([]string, 0, 2*len(toks))
	grams = append(grams, toks...)
	for i := 0; i+1 < len(toks); i++ {
		grams = append(grams, toks[i]+" "+toks[i+1])
	}
	return grams
}

func fitVectorizer(docs []string, maxFeatures int) (*vectorizer, []vector) {
	termFreq := map[string]int{}
	docFreq := map[string]int{}
	analyzed := make([][]string, len(docs))
	for i, d := range docs {
		grams := analyze(d)
		analyzed[i] = grams
		seen := map[string]bool{}
		for _, g := range grams {
			termFreq[g]++
			if !seen[g] {
				seen[g] = true
				docFreq[g]++
			}
		}
	}

	terms := make([]string, 0, len(termFreq))
	for t := range termFreq {
		terms = append(terms, t)
	}
	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if termFreq[terms[i]] != termFreq[terms[j]] {
				return termFreq[terms[i]] > termFreq[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	v := &vectorizer{vocab: make(map[string]int, len(terms)), idf: make([]float64, len(terms))}
	n := float64(len(docs))
	for i, t := range terms {
		v.vocab[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	rows := make([]vector, len(docs))
	for i, grams := range analyzed {
		rows[i] = v.weigh(grams)
	}
	return v, rows
}

func (v *vectorizer) transform(text string) vector {
	return v.weigh(analyze(text))
}

func (v *vectorizer) weigh(grams []string) vector {
	counts := map[int]float64{}
	for _, g := range grams {
		if idx, ok := v.vocab[g]; ok {
			counts[idx]++
		}
	}
	row := make(vector, 0, len(counts))
	var norm float64
	for idx, c := range counts {
		w := c * v.idf[idx]
		row = append(row, feature{idx: idx, val: w})
		norm += w * w
	}
	sort.Slice(row, func(i, j int) bool { return row[i].idx < row[j].idx })
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range row {
			row[i].val /= norm
		}
	}
	return row
}

func (x vector) dot(w []float64) float64 {
	var s float64
	for _, f := range x {
		s += f.val * w[f.idx]
	}
	return s
}
