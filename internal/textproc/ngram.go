package textproc

import (
	"sort"
	"strings"
)

// NGram is one n-gram and its occurrence count.
type NGram struct {
	Text  string
	Count int
}

// CountNGrams collects n-grams of the given size across the word sequences
// and returns them ranked by count. Ties keep first-seen order so top-k
// reporting is reproducible.
func CountNGrams(docs [][]string, n int) []NGram {
	if n < 1 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, words := range docs {
		for i := 0; i+n <= len(words); i++ {
			gram := strings.Join(words[i:i+n], " ")
			if _, seen := counts[gram]; !seen {
				order = append(order, gram)
			}
			counts[gram]++
		}
	}
	out := make([]NGram, len(order))
	for i, gram := range order {
		out[i] = NGram{Text: gram, Count: counts[gram]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
