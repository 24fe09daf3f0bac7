// Package sentiment scores polarity, subjectivity, and dominant emotion per
// record using a weighted lexicon with negation and intensifier handling,
// and aggregates corpus-level trends.
package sentiment

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
)

// negationWindow is how many tokens back a negator still flips a match.
const negationWindow = 2

// RecordScore is the per-record sentiment outcome.
type RecordScore struct {
	RecordID      string
	Polarity      float64
	Subjectivity  float64
	Emotion       string
	Intensity     float64
	LowConfidence bool
}

// TrendPoint is one time-ordered polarity observation.
type TrendPoint struct {
	Timestamp time.Time
	RecordID  string
	Polarity  float64
}

// CategorySentiment aggregates polarity within one metadata category.
type CategorySentiment struct {
	Category     string
	Count        int
	MeanPolarity float64
}

// Trend directions derived from the least-squares slope of the trend series.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Result is the full sentiment analysis outcome for one corpus.
type Result struct {
	Records        []RecordScore
	MeanPolarity   float64
	MedianPolarity float64
	Volatility     float64
	ByCategory     []CategorySentiment
	Trend          []TrendPoint
	TrendDirection string
	Warnings       []string
}

// Analyzer scores corpora against the built-in lexicon. It is stateless and
// safe for concurrent use.
type Analyzer struct {
	logger *slog.Logger
}

// New returns a sentiment Analyzer.
func New() *Analyzer {
	return &Analyzer{logger: logger.WithComponent("sentiment")}
}

// Score analyzes every record of the corpus. It has no minimum corpus size;
// short or non-lexical text yields polarity 0 with a low_confidence flag.
func (a *Analyzer) Score(c *corpus.TextCorpus) (*Result, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	res := &Result{Records: make([]RecordScore, 0, c.Len())}
	polarities := make([]float64, 0, c.Len())
	for _, r := range c.Records() {
		score := scoreText(r.Text)
		score.RecordID = r.ID
		res.Records = append(res.Records, score)
		polarities = append(polarities, score.Polarity)
	}

	res.MeanPolarity = mean(polarities)
	res.MedianPolarity = median(polarities)
	res.Volatility = variance(polarities)

	if c.HasCategories() {
		res.ByCategory = byCategory(c, res.Records)
	}
	if c.HasTimestamps() {
		res.Trend = trendSeries(c, res.Records)
		res.TrendDirection = trendDirection(res.Trend)
	} else {
		res.Warnings = append(res.Warnings, report.WarnNoTimestamps)
	}

	lowConfidence := 0
	for _, s := range res.Records {
		if s.LowConfidence {
			lowConfidence++
		}
	}
	if lowConfidence == len(res.Records) {
		res.Warnings = append(res.Warnings, report.WarnLowConfidence)
	}
	a.logger.Debug("sentiment scored",
		"records", c.Len(),
		"mean_polarity", res.MeanPolarity,
		"low_confidence", lowConfidence,
	)
	return res, nil
}

// Run wraps Score in the shared result envelope.
func (a *Analyzer) Run(c *corpus.TextCorpus) (report.AnalysisResult, error) {
	res, err := a.Score(c)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	confident := 0
	for _, s := range res.Records {
		if !s.LowConfidence {
			confident++
		}
	}
	return report.AnalysisResult{
		Kind:       report.KindSentiment,
		Method:     "lexicon_weighted",
		Confidence: float64(confident) / float64(len(res.Records)),
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d records scored; mean polarity %.2f (%s), volatility %.3f",
			len(res.Records), res.MeanPolarity,
			polarityLabel(res.MeanPolarity), res.Volatility),
		Data: res,
	}, nil
}

func scoreText(text string) RecordScore {
	words := textproc.Words(text)
	score := RecordScore{Emotion: EmotionNeutral}
	if len(words) == 0 {
		score.LowConfidence = true
		return score
	}

	var sum, absSum float64
	matched := 0
	emotionCounts := make(map[string]int)
	for i, word := range words {
		if w, ok := emotionWords[word]; ok {
			emotionCounts[w]++
		}
		base, ok := lexicon[word]
		if !ok {
			continue
		}
		adjusted := base
		if scale, ok := precedingIntensifier(words, i); ok {
			adjusted *= scale
		}
		if precededByNegator(words, i) {
			adjusted = -adjusted
		}
		sum += adjusted
		absSum += math.Abs(adjusted)
		matched++
	}

	if matched > 0 {
		score.Polarity = clamp(sum/float64(matched), -1, 1)
		score.Intensity = clamp(absSum/float64(matched), 0, 1)
		score.Subjectivity = clamp(2*float64(matched)/float64(len(words)), 0, 1)
	}
	score.Emotion = dominantEmotion(emotionCounts)
	score.LowConfidence = matched == 0 || len(words) < 3
	return score
}

// precededByNegator reports whether a negator occurs within the lookback
// window before position i, skipping intensifiers ("not very good").
func precededByNegator(words []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if _, ok := negators[words[j]]; ok {
			return true
		}
		if _, ok := intensifiers[words[j]]; !ok {
			return false
		}
	}
	return false
}

func precedingIntensifier(words []string, i int) (float64, bool) {
	if i == 0 {
		return 0, false
	}
	scale, ok := intensifiers[words[i-1]]
	return scale, ok
}

func dominantEmotion(counts map[string]int) string {
	best := EmotionNeutral
	bestCount := 0
	for _, emotion := range emotionOrder {
		if counts[emotion] > bestCount {
			best = emotion
			bestCount = counts[emotion]
		}
	}
	return best
}

func byCategory(c *corpus.TextCorpus, scores []RecordScore) []CategorySentiment {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i, r := range c.Records() {
		if r.Category == "" {
			continue
		}
		sums[r.Category] += scores[i].Polarity
		counts[r.Category]++
	}
	out := make([]CategorySentiment, 0, len(counts))
	for _, category := range c.Categories() {
		out = append(out, CategorySentiment{
			Category:     category,
			Count:        counts[category],
			MeanPolarity: sums[category] / float64(counts[category]),
		})
	}
	return out
}

func trendSeries(c *corpus.TextCorpus, scores []RecordScore) []TrendPoint {
	points := make([]TrendPoint, 0, c.Len())
	for i, r := range c.Records() {
		points = append(points, TrendPoint{
			Timestamp: *r.Timestamp,
			RecordID:  r.ID,
			Polarity:  scores[i].Polarity,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}

// trendDirection fits a least-squares slope over the time-ordered polarities
// and maps it onto improving/declining/stable.
func trendDirection(points []TrendPoint) string {
	if len(points) < 2 {
		return TrendStable
	}
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Polarity
		sumXY += x * p.Polarity
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return TrendStable
	}
	slope := (n*sumXY - sumX*sumY) / denom
	switch {
	case slope > 0.01:
		return TrendImproving
	case slope < -0.01:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func polarityLabel(p float64) string {
	switch {
	case p > 0.1:
		return "positive"
	case p < -0.1:
		return "negative"
	default:
		return "neutral"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// variance is the population variance; a single value or identical values
// yield exactly 0.
func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}
