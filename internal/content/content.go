// Package content extracts structural and linguistic features from a corpus:
// length statistics, lexical diversity, n-gram frequency tables, and
// keyword-based category assignment against a caller-supplied taxonomy.
package content

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
)

// Uncategorized is assigned when no category keyword set exceeds the
// minimum overlap fraction.
const Uncategorized = "uncategorized"

// Config tunes the content analyzer. Zero values fall back to defaults.
type Config struct {
	StopWords        []string
	NGramSizes       []int
	TopK             int
	CategoryKeywords map[string][]string
	MinOverlap       float64
}

// LengthStats summarises a per-record count distribution.
type LengthStats struct {
	Min   int
	Max   int
	Mean  float64
	Stdev float64
}

// Result is the structural analysis outcome for one corpus.
type Result struct {
	Words            LengthStats
	Sentences        LengthStats
	LexicalDiversity float64
	QuestionRate     float64
	NGrams           map[int][]textproc.NGram
	Categories       map[string]string
	CategoryCounts   map[string]int
	Warnings         []string
}

// Analyzer computes structure features. Stateless; safe for concurrent use.
type Analyzer struct {
	tok          *textproc.Tokenizer
	ngramSizes   []int
	topK         int
	categories   []string
	categorySets map[string]map[string]struct{}
	minOverlap   float64
	logger       *slog.Logger
}

// New builds a content Analyzer from cfg.
func New(cfg Config) *Analyzer {
	tok := textproc.NewTokenizer()
	if len(cfg.StopWords) > 0 {
		tok = textproc.NewTokenizerWithStopWords(cfg.StopWords)
	}
	sizes := cfg.NGramSizes
	if len(sizes) == 0 {
		sizes = []int{2, 3}
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = 10
	}
	minOverlap := cfg.MinOverlap
	if minOverlap <= 0 {
		minOverlap = 0.1
	}
	a := &Analyzer{
		tok:        tok,
		ngramSizes: sizes,
		topK:       topK,
		minOverlap: minOverlap,
		logger:     logger.WithComponent("content"),
	}
	if len(cfg.CategoryKeywords) > 0 {
		a.categorySets = make(map[string]map[string]struct{}, len(cfg.CategoryKeywords))
		for name, keywords := range cfg.CategoryKeywords {
			set := make(map[string]struct{}, len(keywords))
			for _, kw := range keywords {
				set[strings.ToLower(strings.TrimSpace(kw))] = struct{}{}
			}
			a.categories = append(a.categories, name)
			a.categorySets[name] = set
		}
		sort.Strings(a.categories)
	}
	return a
}

// AnalyzeStructure computes length stats, lexical diversity, n-gram tables
// and (when a taxonomy is configured) per-record category assignment.
func (a *Analyzer) AnalyzeStructure(c *corpus.TextCorpus) (*Result, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	wordCounts := make([]int, 0, c.Len())
	sentenceCounts := make([]int, 0, c.Len())
	contentDocs := make([][]string, 0, c.Len())
	questions := 0
	uniqueWords := make(map[string]struct{})
	totalWords := 0

	for _, r := range c.Records() {
		words := textproc.Words(r.Text)
		wordCounts = append(wordCounts, len(words))
		sentenceCounts = append(sentenceCounts, len(textproc.Sentences(r.Text)))
		for _, w := range words {
			uniqueWords[w] = struct{}{}
		}
		totalWords += len(words)
		if strings.Contains(r.Text, "?") {
			questions++
		}
		contentDocs = append(contentDocs, a.tok.ContentWords(r.Text))
	}

	res := &Result{
		Words:        describeInts(wordCounts),
		Sentences:    describeInts(sentenceCounts),
		QuestionRate: float64(questions) / float64(c.Len()),
		NGrams:       make(map[int][]textproc.NGram, len(a.ngramSizes)),
	}
	if totalWords > 0 {
		res.LexicalDiversity = float64(len(uniqueWords)) / float64(totalWords)
	}
	for _, n := range a.ngramSizes {
		grams := textproc.CountNGrams(contentDocs, n)
		if len(grams) > a.topK {
			grams = grams[:a.topK]
		}
		res.NGrams[n] = grams
	}
	if a.categorySets != nil {
		a.categorize(c, res)
	}
	a.logger.Debug("structure analyzed",
		"records", c.Len(),
		"mean_words", res.Words.Mean,
		"lexical_diversity", res.LexicalDiversity,
	)
	return res, nil
}

// Run wraps AnalyzeStructure in the shared result envelope.
func (a *Analyzer) Run(c *corpus.TextCorpus) (report.AnalysisResult, error) {
	res, err := a.AnalyzeStructure(c)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	confidence := 1.0
	if c.Len() < 5 {
		confidence = 0.5
		res.Warnings = append(res.Warnings, report.WarnInsufficientData)
	}
	return report.AnalysisResult{
		Kind:       report.KindContent,
		Method:     "structural_features",
		Confidence: confidence,
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d records; %.1f words/record, lexical diversity %.2f",
			c.Len(), res.Words.Mean, res.LexicalDiversity),
		Data: res,
	}, nil
}

// categorize assigns each record the best-matching category by keyword
// overlap fraction, or Uncategorized when no set reaches the minimum.
// Ties break by lexicographic category order for determinism.
func (a *Analyzer) categorize(c *corpus.TextCorpus, res *Result) {
	res.Categories = make(map[string]string, c.Len())
	res.CategoryCounts = make(map[string]int)
	for _, r := range c.Records() {
		tokens := make(map[string]struct{})
		for _, w := range textproc.Words(r.Text) {
			tokens[w] = struct{}{}
		}
		best := Uncategorized
		bestScore := 0.0
		for _, name := range a.categories {
			set := a.categorySets[name]
			if len(set) == 0 {
				continue
			}
			overlap := 0
			for kw := range set {
				if _, ok := tokens[kw]; ok {
					overlap++
				}
			}
			score := float64(overlap) / float64(len(set))
			if score >= a.minOverlap && score > bestScore {
				best = name
				bestScore = score
			}
		}
		res.Categories[r.ID] = best
		res.CategoryCounts[best]++
	}
}

func describeInts(counts []int) LengthStats {
	if len(counts) == 0 {
		return LengthStats{}
	}
	stats := LengthStats{Min: counts[0], Max: counts[0]}
	sum := 0
	for _, n := range counts {
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
		sum += n
	}
	stats.Mean = float64(sum) / float64(len(counts))
	var sq float64
	for _, n := range counts {
		d := float64(n) - stats.Mean
		sq += d * d
	}
	stats.Stdev = math.Sqrt(sq / float64(len(counts)))
	return stats
}
