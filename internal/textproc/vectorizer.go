package textproc

import (
	"math"
	"sort"
)

// Vectorizer maps documents onto a fixed-dimension term-frequency space with
// inverse-document-frequency weighting. The vocabulary is built once per Fit
// in first-seen term order, so vector dimensions are stable across all
// documents of one analysis call.
type Vectorizer struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// Fit builds the vocabulary and IDF weights from the tokenized documents and
// returns the fitted Vectorizer.
func Fit(docs [][]string) *Vectorizer {
	v := &Vectorizer{vocab: make(map[string]int)}
	docFreq := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			if _, ok := v.vocab[term]; !ok {
				v.vocab[term] = len(v.terms)
				v.terms = append(v.terms, term)
			}
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}
	total := float64(len(docs))
	v.idf = make([]float64, len(v.terms))
	for i, term := range v.terms {
		v.idf[i] = idf(total, float64(docFreq[term]))
	}
	return v
}

// idf is the BM25-style inverse document frequency, floored above zero so
// terms present in every document still contribute.
func idf(totalDocs, docFreq float64) float64 {
	return math.Log((totalDocs-docFreq+0.5)/(docFreq+0.5) + 1)
}

// Dim returns the vocabulary size.
func (v *Vectorizer) Dim() int {
	return len(v.terms)
}

// Terms returns the vocabulary in first-seen order.
func (v *Vectorizer) Terms() []string {
	return v.terms
}

// Transform maps one tokenized document onto the fitted space: term
// frequency normalised by document length, weighted by IDF. Unknown terms
// are ignored.
func (v *Vectorizer) Transform(doc []string) []float64 {
	vec := make([]float64, len(v.terms))
	if len(doc) == 0 {
		return vec
	}
	for _, term := range doc {
		if i, ok := v.vocab[term]; ok {
			vec[i]++
		}
	}
	n := float64(len(doc))
	for i := range vec {
		vec[i] = vec[i] / n * v.idf[i]
	}
	return vec
}

// TransformAll maps every document onto the fitted space.
func (v *Vectorizer) TransformAll(docs [][]string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// TermColumn returns the per-document weight of term index i, used for
// term-level coherence scoring.
func (v *Vectorizer) TermColumn(vectors [][]float64, i int) []float64 {
	col := make([]float64, len(vectors))
	for d, vec := range vectors {
		col[d] = vec[i]
	}
	return col
}

// TermIndex returns the vocabulary index of term, or -1 when unknown.
func (v *Vectorizer) TermIndex(term string) int {
	if i, ok := v.vocab[term]; ok {
		return i
	}
	return -1
}

// TopTerms returns the k highest-weight terms of a vector, ties broken by
// first-seen vocabulary order for reproducible reporting.
func (v *Vectorizer) TopTerms(vec []float64, k int) []string {
	type weighted struct {
		index  int
		weight float64
	}
	ranked := make([]weighted, 0, len(vec))
	for i, w := range vec {
		if w > 0 {
			ranked = append(ranked, weighted{index: i, weight: w})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].weight > ranked[j].weight
	})
	if k > len(ranked) {
		k = len(ranked)
	}
	terms := make([]string, k)
	for i := 0; i < k; i++ {
		terms[i] = v.terms[ranked[i].index]
	}
	return terms
}

// Cosine returns the cosine similarity of two equal-length vectors, 0 when
// either has zero magnitude.
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MeanVector returns the element-wise mean of the selected vectors.
func MeanVector(vectors [][]float64, members []int, dim int) []float64 {
	mean := make([]float64, dim)
	if len(members) == 0 {
		return mean
	}
	for _, m := range members {
		for i, w := range vectors[m] {
			mean[i] += w
		}
	}
	n := float64(len(members))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
