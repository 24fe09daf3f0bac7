// Package stats produces descriptive statistics, a data-quality score, and
// ranked natural-language insights over any corpus. It works standalone on
// raw text or in summarizing mode over the other analyzers' results.
package stats

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

// Quality-score weights. Pinned by the test suite; changing them is a
// behavioural change.
const (
	weightLengthAdequacy = 0.35
	weightUniqueness     = 0.25
	weightRichness       = 0.20
	weightConfidence     = 0.20

	// adequateMeanWords is the mean response length considered fully
	// adequate for qualitative analysis.
	adequateMeanWords = 20.0

	// defaultConfidenceSignal is used when no analyzer results are
	// supplied to read confidence from.
	defaultConfidenceSignal = 0.5
)

// Descriptive summarises the word-count distribution of a corpus.
type Descriptive struct {
	RecordCount     int
	TotalWords      int
	MinWords        int
	MaxWords        int
	MeanWords       float64
	MedianWords     float64
	StdevWords      float64
	UniqueResponses int
	DuplicateRate   float64
	TypeTokenRatio  float64
}

// Quality is the weighted data-quality breakdown.
type Quality struct {
	Score            float64
	LengthAdequacy   float64
	Uniqueness       float64
	Richness         float64
	ConfidenceSignal float64
}

// Result is the comprehensive summary for one corpus.
type Result struct {
	Descriptive     Descriptive
	Quality         Quality
	KeyInsights     []string
	Recommendations []string
	Warnings        []string
}

// Analyzer computes summaries. Stateless; safe for concurrent use.
type Analyzer struct {
	logger *slog.Logger
}

// New returns a statistics Analyzer.
func New() *Analyzer {
	return &Analyzer{logger: logger.WithComponent("statistics")}
}

// Summarize builds the comprehensive summary. prior may be nil (standalone
// mode) or carry the merged results of other analyzers, whose confidence
// indicators then feed the quality score and insights.
func (a *Analyzer) Summarize(
	c *corpus.TextCorpus,
	prior map[report.Kind]report.AnalysisResult,
) (*Result, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}

	desc := describe(c)
	quality := scoreQuality(desc, prior)
	res := &Result{
		Descriptive: desc,
		Quality:     quality,
	}
	res.KeyInsights = insights(desc, quality, prior)
	res.Recommendations = recommendations(desc, prior)
	if desc.MeanWords < 5 {
		res.Warnings = append(res.Warnings, report.WarnLowConfidence)
	}
	a.logger.Debug("summary generated",
		"records", desc.RecordCount,
		"quality_score", quality.Score,
	)
	return res, nil
}

// Run wraps Summarize in the shared result envelope.
func (a *Analyzer) Run(
	c *corpus.TextCorpus,
	prior map[report.Kind]report.AnalysisResult,
) (report.AnalysisResult, error) {
	res, err := a.Summarize(c, prior)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	return report.AnalysisResult{
		Kind:       report.KindStatistics,
		Method:     "descriptive_summary",
		Confidence: res.Quality.Score / 100,
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d records, %.1f words/record, data quality %.0f/100",
			res.Descriptive.RecordCount, res.Descriptive.MeanWords,
			res.Quality.Score),
		Data: res,
	}, nil
}

func describe(c *corpus.TextCorpus) Descriptive {
	counts := make([]float64, 0, c.Len())
	uniqueTexts := make(map[string]struct{}, c.Len())
	uniqueTokens := make(map[string]struct{})
	totalWords := 0
	for _, r := range c.Records() {
		words := textproc.Words(r.Text)
		counts = append(counts, float64(len(words)))
		totalWords += len(words)
		for _, w := range words {
			uniqueTokens[w] = struct{}{}
		}
		uniqueTexts[strings.ToLower(strings.TrimSpace(r.Text))] = struct{}{}
	}

	desc := Descriptive{
		RecordCount:     c.Len(),
		TotalWords:      totalWords,
		UniqueResponses: len(uniqueTexts),
	}
	desc.DuplicateRate = 1 - float64(desc.UniqueResponses)/float64(c.Len())
	if totalWords > 0 {
		desc.TypeTokenRatio = float64(len(uniqueTokens)) / float64(totalWords)
	}

	sorted := make([]float64, len(counts))
	copy(sorted, counts)
	sort.Float64s(sorted)
	desc.MinWords = int(sorted[0])
	desc.MaxWords = int(sorted[len(sorted)-1])
	var sum float64
	for _, v := range counts {
		sum += v
	}
	desc.MeanWords = sum / float64(len(counts))
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		desc.MedianWords = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		desc.MedianWords = sorted[mid]
	}
	var sq float64
	for _, v := range counts {
		d := v - desc.MeanWords
		sq += d * d
	}
	desc.StdevWords = math.Sqrt(sq / float64(len(counts)))
	return desc
}

// scoreQuality combines length adequacy, response uniqueness, lexical
// richness, and upstream analyzer confidence into one 0-100 score.
func scoreQuality(desc Descriptive, prior map[report.Kind]report.AnalysisResult) Quality {
	q := Quality{
		LengthAdequacy:   math.Min(1, desc.MeanWords/adequateMeanWords),
		Uniqueness:       1 - desc.DuplicateRate,
		Richness:         desc.TypeTokenRatio,
		ConfidenceSignal: defaultConfidenceSignal,
	}
	var confidences []float64
	for _, kind := range []report.Kind{report.KindSentiment, report.KindContent} {
		if res, ok := prior[kind]; ok {
			confidences = append(confidences, res.Confidence)
		}
	}
	if len(confidences) > 0 {
		var sum float64
		for _, v := range confidences {
			sum += v
		}
		q.ConfidenceSignal = sum / float64(len(confidences))
	}
	q.Score = 100 * (weightLengthAdequacy*q.LengthAdequacy +
		weightUniqueness*q.Uniqueness +
		weightRichness*q.Richness +
		weightConfidence*q.ConfidenceSignal)
	return q
}

// insights produces the ranked natural-language findings, most important
// first.
func insights(
	desc Descriptive,
	quality Quality,
	prior map[report.Kind]report.AnalysisResult,
) []string {
	var out []string
	out = append(out, fmt.Sprintf(
		"Dataset contains %d responses averaging %.1f words (median %.1f).",
		desc.RecordCount, desc.MeanWords, desc.MedianWords))
	if desc.DuplicateRate > 0.2 {
		out = append(out, fmt.Sprintf(
			"High duplicate rate: %.0f%% of responses repeat earlier text.",
			desc.DuplicateRate*100))
	}
	if desc.MeanWords < 10 {
		out = append(out, "Responses are short; depth of qualitative insight will be limited.")
	} else if desc.MeanWords > 60 {
		out = append(out, "Responses are long-form; thematic and coding analysis will be most informative.")
	}
	if sent, ok := prior[report.KindSentiment]; ok {
		out = append(out, fmt.Sprintf(
			"Sentiment analysis ran at %.0f%% confidence: %s",
			sent.Confidence*100, sent.Summary))
	}
	if them, ok := prior[report.KindThematic]; ok {
		out = append(out, "Thematic analysis available: "+them.Summary)
	}
	if quality.Richness > 0.6 {
		out = append(out, "Vocabulary is varied, suggesting diverse perspectives across respondents.")
	}
	return out
}

// recommendations suggests methodology adjustments based on corpus shape
// and which analyses are absent.
func recommendations(desc Descriptive, prior map[report.Kind]report.AnalysisResult) []string {
	var out []string
	if desc.RecordCount < 10 {
		out = append(out, fmt.Sprintf(
			"Collect at least %d more responses for reliable theme extraction.",
			10-desc.RecordCount))
	}
	if desc.MeanWords < 10 {
		out = append(out, "Use open-ended prompts to elicit longer responses.")
	}
	if desc.DuplicateRate > 0.2 {
		out = append(out, "Review collection instrument for accidental duplicate submissions.")
	}
	if _, ok := prior[report.KindThematic]; !ok && desc.RecordCount >= 10 {
		out = append(out, "Corpus is large enough for thematic clustering; consider running it.")
	}
	if _, ok := prior[report.KindCoding]; !ok && desc.MeanWords >= 20 {
		out = append(out, "Responses are detailed enough to benefit from a qualitative code scheme.")
	}
	return out
}
