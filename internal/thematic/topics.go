package thematic

import (
	"math/rand"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
)

// topicIterations bounds the multiplicative-update loop. The decomposition
// stabilises well before this on survey-sized corpora.
const topicIterations = 50

// epsilon keeps the multiplicative updates away from division by zero.
const epsilon = 1e-9

// topicModel derives k latent topics by non-negative factorisation of the
// document-term matrix (V ≈ W·H). Each record receives a topic-membership
// distribution from its row of W; its theme is the highest-probability
// topic, ties broken by lowest topic index. Seeded initialisation keeps the
// decomposition deterministic.
func (a *Analyzer) topicModel(
	c *corpus.TextCorpus,
	vectorizer *textproc.Vectorizer,
	vectors [][]float64,
	k int,
) *Result {
	n := len(vectors)
	dim := vectorizer.Dim()
	rng := rand.New(rand.NewSource(a.cfg.Seed))

	w := randomMatrix(rng, n, k)
	h := randomMatrix(rng, k, dim)

	for iter := 0; iter < topicIterations; iter++ {
		// H <- H * (Wᵀ V) / (Wᵀ W H)
		wtv := multiplyTransposeLeft(w, vectors, k, dim)
		wtwh := multiply(multiplyTransposeLeft(w, w, k, k), h, k, dim)
		for i := 0; i < k; i++ {
			for j := 0; j < dim; j++ {
				h[i][j] *= wtv[i][j] / (wtwh[i][j] + epsilon)
			}
		}
		// W <- W * (V Hᵀ) / (W H Hᵀ)
		vht := multiplyTransposeRight(vectors, h, n, k)
		whht := multiply(w, multiplyTransposeRight(h, h, k, k), n, k)
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				w[i][j] *= vht[i][j] / (whht[i][j] + epsilon)
			}
		}
	}

	res := &Result{
		Strategy:   StrategyTopicModel,
		Iterations: topicIterations,
		Membership: make(map[string][]float64, n),
	}

	assignments := make([]int, n)
	for i := 0; i < n; i++ {
		dist := normalizeRow(w[i])
		res.Membership[c.Record(i).ID] = dist
		assignments[i] = argmax(dist)
	}
	repairEmptyClusters(assignments, k)

	for j := 0; j < k; j++ {
		members := membersOf(assignments, j)
		centroid := textproc.MeanVector(vectors, members, dim)
		theme := a.buildTheme(c, vectorizer, vectors, centroid, members, j)
		// prefer the topic's own term weights for labelling when the
		// factorisation produced any signal
		if topTerms := vectorizer.TopTerms(h[j], a.cfg.TopTerms); len(topTerms) > 0 {
			theme.TopTerms = topTerms
			theme.Label = themeLabel(topTerms, j)
			theme.Coherence = coherence(vectorizer, vectors, topTerms)
		}
		res.Themes = append(res.Themes, theme)
	}
	if len(res.Themes) == 0 {
		res.Warnings = append(res.Warnings, report.WarnInsufficientData)
	}
	return res
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.Float64() + epsilon
		}
	}
	return m
}

// multiplyTransposeLeft computes Aᵀ·B where A has the same row count as B.
func multiplyTransposeLeft(a, b [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
	}
	for r := range a {
		for i := 0; i < rows; i++ {
			av := a[r][i]
			if av == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				out[i][j] += av * b[r][j]
			}
		}
	}
	return out
}

// multiplyTransposeRight computes A·Bᵀ.
func multiplyTransposeRight(a, b [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			var sum float64
			for x := range a[i] {
				sum += a[i][x] * b[j][x]
			}
			out[i][j] = sum
		}
	}
	return out
}

func multiply(a, b [][]float64, rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		for x := range a[i] {
			av := a[i][x]
			if av == 0 {
				continue
			}
			for j := 0; j < cols; j++ {
				out[i][j] += av * b[x][j]
			}
		}
	}
	return out
}

func normalizeRow(row []float64) []float64 {
	var sum float64
	for _, v := range row {
		sum += v
	}
	out := make([]float64, len(row))
	if sum == 0 {
		for i := range out {
			out[i] = 1 / float64(len(row))
		}
		return out
	}
	for i, v := range row {
		out[i] = v / sum
	}
	return out
}

// argmax returns the index of the largest value, ties broken by lowest
// index.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
