// Package thematic groups records into themes. Two interchangeable
// strategies share one term-frequency vector space: cosine k-means
// partitioning and a probabilistic topic decomposition. Both are
// deterministic for a fixed seed and degrade to a single catch-all theme on
// undersized corpora instead of failing.
package thematic

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
)

// Strategy selects the theme-extraction algorithm.
type Strategy string

const (
	StrategyClustering Strategy = "clustering"
	StrategyTopicModel Strategy = "topic_model"
)

// MinRecords is the corpus size below which clustering is unreliable and the
// analyzer falls back to a single degraded theme.
const MinRecords = 10

// Theme is one derived grouping of related records.
type Theme struct {
	Label     string
	RecordIDs []string
	Exemplars []string
	TopTerms  []string
	Coherence float64
}

// Result is the outcome of one identify-themes call.
type Result struct {
	Strategy   Strategy
	Themes     []Theme
	Iterations int
	// Membership holds each record's topic distribution under the
	// topic_model strategy; nil for clustering.
	Membership map[string][]float64
	Warnings   []string
}

// Config tunes the analyzer. Zero values fall back to defaults.
type Config struct {
	NThemes       int
	Strategy      Strategy
	Seed          int64
	MaxIterations int
	TopTerms      int
	Exemplars     int
	StopWords     []string
}

// Analyzer identifies themes over one corpus per call. Stateless between
// calls.
type Analyzer struct {
	cfg    Config
	tok    *textproc.Tokenizer
	logger *slog.Logger
}

// New builds a thematic Analyzer from cfg.
func New(cfg Config) (*Analyzer, error) {
	if cfg.NThemes <= 0 {
		return nil, errors.NewValidation("n_themes", "must be positive, got %d", cfg.NThemes)
	}
	switch cfg.Strategy {
	case "", StrategyClustering:
		cfg.Strategy = StrategyClustering
	case StrategyTopicModel:
	default:
		return nil, errors.NewValidation("clustering_strategy", "unknown strategy %q", cfg.Strategy)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	if cfg.TopTerms <= 0 {
		cfg.TopTerms = 5
	}
	if cfg.Exemplars <= 0 {
		cfg.Exemplars = 3
	}
	tok := textproc.NewTokenizer()
	if len(cfg.StopWords) > 0 {
		tok = textproc.NewTokenizerWithStopWords(cfg.StopWords)
	}
	return &Analyzer{
		cfg:    cfg,
		tok:    tok,
		logger: logger.WithComponent("thematic"),
	}, nil
}

// IdentifyThemes vectorizes the corpus and applies the configured strategy.
func (a *Analyzer) IdentifyThemes(c *corpus.TextCorpus) (*Result, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	docs := make([][]string, c.Len())
	for i, text := range c.Texts() {
		docs[i] = a.tok.Terms(text)
	}
	vectorizer := textproc.Fit(docs)
	vectors := vectorizer.TransformAll(docs)

	if c.Len() < MinRecords {
		return a.degradedSingleTheme(c, vectorizer, vectors), nil
	}

	k := a.cfg.NThemes
	if k > c.Len() {
		k = c.Len()
	}

	var res *Result
	switch a.cfg.Strategy {
	case StrategyTopicModel:
		res = a.topicModel(c, vectorizer, vectors, k)
	default:
		res = a.cluster(c, vectorizer, vectors, k)
	}
	if k < a.cfg.NThemes {
		res.Warnings = append(res.Warnings, report.WarnInsufficientData)
	}
	a.logger.Debug("themes identified",
		"strategy", string(res.Strategy),
		"themes", len(res.Themes),
		"iterations", res.Iterations,
	)
	return res, nil
}

// Run wraps IdentifyThemes in the shared result envelope.
func (a *Analyzer) Run(c *corpus.TextCorpus) (report.AnalysisResult, error) {
	res, err := a.IdentifyThemes(c)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	var coherenceSum float64
	for _, t := range res.Themes {
		coherenceSum += t.Coherence
	}
	confidence := 0.0
	if len(res.Themes) > 0 {
		confidence = coherenceSum / float64(len(res.Themes))
	}
	return report.AnalysisResult{
		Kind:       report.KindThematic,
		Method:     string(res.Strategy),
		Confidence: confidence,
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d themes from %d records via %s",
			len(res.Themes), c.Len(), res.Strategy),
		Data: res,
	}, nil
}

// degradedSingleTheme collects every record into one theme with an
// insufficient-data warning instead of failing on small corpora.
func (a *Analyzer) degradedSingleTheme(
	c *corpus.TextCorpus,
	vectorizer *textproc.Vectorizer,
	vectors [][]float64,
) *Result {
	members := make([]int, c.Len())
	for i := range members {
		members[i] = i
	}
	centroid := textproc.MeanVector(vectors, members, vectorizer.Dim())
	theme := a.buildTheme(c, vectorizer, vectors, centroid, members, 0)
	return &Result{
		Strategy: a.cfg.Strategy,
		Themes:   []Theme{theme},
		Warnings: []string{report.WarnDegradedClustering},
	}
}

// buildTheme assembles label, exemplars, top terms and coherence for one
// group of member record indexes.
func (a *Analyzer) buildTheme(
	c *corpus.TextCorpus,
	vectorizer *textproc.Vectorizer,
	vectors [][]float64,
	centroid []float64,
	members []int,
	index int,
) Theme {
	topTerms := vectorizer.TopTerms(centroid, a.cfg.TopTerms)
	theme := Theme{
		Label:     themeLabel(topTerms, index),
		TopTerms:  topTerms,
		Coherence: coherence(vectorizer, vectors, topTerms),
	}
	for _, m := range members {
		theme.RecordIDs = append(theme.RecordIDs, c.Record(m).ID)
	}
	theme.Exemplars = exemplars(c, vectors, centroid, members, a.cfg.Exemplars)
	return theme
}

// exemplars returns the ids of the k member records closest to the centroid,
// ties broken by corpus order.
func exemplars(
	c *corpus.TextCorpus,
	vectors [][]float64,
	centroid []float64,
	members []int,
	k int,
) []string {
	type scored struct {
		index int
		sim   float64
	}
	ranked := make([]scored, 0, len(members))
	for _, m := range members {
		ranked = append(ranked, scored{index: m, sim: textproc.Cosine(vectors[m], centroid)})
	}
	// stable sort keeps corpus order on ties
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].sim > ranked[j].sim
	})
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = c.Record(ranked[i].index).ID
	}
	return out
}

// coherence is the average pairwise cosine similarity among the theme's top
// terms, each term represented by its per-document weight column.
func coherence(vectorizer *textproc.Vectorizer, vectors [][]float64, topTerms []string) float64 {
	if len(topTerms) < 2 {
		return 0
	}
	columns := make([][]float64, 0, len(topTerms))
	for _, term := range topTerms {
		if i := vectorizer.TermIndex(term); i >= 0 {
			columns = append(columns, vectorizer.TermColumn(vectors, i))
		}
	}
	if len(columns) < 2 {
		return 0
	}
	var sum float64
	pairs := 0
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			sum += textproc.Cosine(columns[i], columns[j])
			pairs++
		}
	}
	return sum / float64(pairs)
}

func themeLabel(topTerms []string, index int) string {
	n := len(topTerms)
	if n == 0 {
		return fmt.Sprintf("theme-%d", index+1)
	}
	if n > 3 {
		n = 3
	}
	return strings.Join(topTerms[:n], " / ")
}
