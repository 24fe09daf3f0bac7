package thematic

import (
	"math/rand"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
)

// cluster partitions the corpus into exactly k themes by iterative centroid
// assignment under cosine similarity. Initial centroids come from a seeded
// permutation, so identical input and seed always produce identical
// assignments. Empty clusters are repaired each round by moving the
// newest member out of the largest cluster, which keeps first-seen records
// in their original group and guarantees k non-empty themes even for fully
// degenerate corpora.
func (a *Analyzer) cluster(
	c *corpus.TextCorpus,
	vectorizer *textproc.Vectorizer,
	vectors [][]float64,
	k int,
) *Result {
	n := len(vectors)
	rng := rand.New(rand.NewSource(a.cfg.Seed))

	centroids := make([][]float64, k)
	for i, docIdx := range rng.Perm(n)[:k] {
		centroids[i] = append([]float64(nil), vectors[docIdx]...)
	}

	assignments := make([]int, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}

	res := &Result{Strategy: StrategyClustering}
	converged := false
	for iter := 0; iter < a.cfg.MaxIterations; iter++ {
		res.Iterations = iter + 1
		for i, vec := range vectors {
			assignments[i] = nearestCentroid(vec, centroids)
		}
		repairEmptyClusters(assignments, k)
		if equalAssignments(assignments, prev) {
			converged = true
			break
		}
		copy(prev, assignments)
		for j := 0; j < k; j++ {
			centroids[j] = textproc.MeanVector(vectors, membersOf(assignments, j), vectorizer.Dim())
		}
	}
	if !converged {
		res.Warnings = append(res.Warnings, report.WarnDidNotConverge)
	}

	for j := 0; j < k; j++ {
		members := membersOf(assignments, j)
		centroids[j] = textproc.MeanVector(vectors, members, vectorizer.Dim())
		res.Themes = append(res.Themes, a.buildTheme(c, vectorizer, vectors, centroids[j], members, j))
	}
	return res
}

// nearestCentroid returns the index of the most similar centroid, ties
// broken by lowest centroid index.
func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestSim := textproc.Cosine(vec, centroids[0])
	for j := 1; j < len(centroids); j++ {
		if sim := textproc.Cosine(vec, centroids[j]); sim > bestSim {
			best = j
			bestSim = sim
		}
	}
	return best
}

// repairEmptyClusters moves the highest-index member of the currently
// largest cluster into each empty cluster, in cluster order.
func repairEmptyClusters(assignments []int, k int) {
	counts := make([]int, k)
	for _, c := range assignments {
		counts[c]++
	}
	for j := 0; j < k; j++ {
		if counts[j] > 0 {
			continue
		}
		largest := 0
		for c := 1; c < k; c++ {
			if counts[c] > counts[largest] {
				largest = c
			}
		}
		if counts[largest] <= 1 {
			continue
		}
		for i := len(assignments) - 1; i >= 0; i-- {
			if assignments[i] == largest {
				assignments[i] = j
				counts[largest]--
				counts[j]++
				break
			}
		}
	}
}

func membersOf(assignments []int, cluster int) []int {
	var members []int
	for i, c := range assignments {
		if c == cluster {
			members = append(members, i)
		}
	}
	return members
}

func equalAssignments(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
