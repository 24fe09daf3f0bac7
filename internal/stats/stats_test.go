package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	pkgerrors "github.com/fieldstudy/qualengine/pkg/errors"
)

func TestDescriptiveDistribution(t *testing.T) {
	c, err := corpus.FromTexts(
		"one two three",
		"one two three four five",
		"one",
		"one two three", // exact duplicate of the first response
	)
	require.NoError(t, err)

	res, err := New().Summarize(c, nil)
	require.NoError(t, err)
	d := res.Descriptive

	assert.Equal(t, 4, d.RecordCount)
	assert.Equal(t, 12, d.TotalWords)
	assert.Equal(t, 1, d.MinWords)
	assert.Equal(t, 5, d.MaxWords)
	assert.InDelta(t, 3.0, d.MeanWords, 1e-9)
	assert.InDelta(t, 3.0, d.MedianWords, 1e-9)
	assert.Equal(t, 3, d.UniqueResponses)
	assert.InDelta(t, 0.25, d.DuplicateRate, 1e-9)
	// 5 distinct tokens over 12 total
	assert.InDelta(t, 5.0/12.0, d.TypeTokenRatio, 1e-9)
}

func TestQualityScoreStandalone(t *testing.T) {
	// 5 identical-length, fully unique, fully distinct-vocabulary records
	c, err := corpus.FromTexts(
		"alpha beta gamma delta",
		"epsilon zeta eta theta",
		"iota kappa lambda mu",
		"nu xi omicron pi",
		"rho sigma tau upsilon",
	)
	require.NoError(t, err)

	res, err := New().Summarize(c, nil)
	require.NoError(t, err)
	q := res.Quality

	assert.InDelta(t, 4.0/20.0, q.LengthAdequacy, 1e-9)
	assert.InDelta(t, 1.0, q.Uniqueness, 1e-9)
	assert.InDelta(t, 1.0, q.Richness, 1e-9)
	assert.InDelta(t, 0.5, q.ConfidenceSignal, 1e-9)
	// 100*(0.35*0.2 + 0.25*1 + 0.20*1 + 0.20*0.5)
	assert.InDelta(t, 62.0, q.Score, 1e-9)
	assert.GreaterOrEqual(t, q.Score, 0.0)
	assert.LessOrEqual(t, q.Score, 100.0)
}

func TestQualityUsesPriorConfidence(t *testing.T) {
	c, err := corpus.FromTexts(
		"alpha beta gamma delta",
		"epsilon zeta eta theta",
	)
	require.NoError(t, err)

	prior := map[report.Kind]report.AnalysisResult{
		report.KindSentiment: {Kind: report.KindSentiment, Confidence: 0.9},
		report.KindContent:   {Kind: report.KindContent, Confidence: 0.7},
		// thematic confidence never feeds the signal
		report.KindThematic: {Kind: report.KindThematic, Confidence: 0.1},
	}
	res, err := New().Summarize(c, prior)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, res.Quality.ConfidenceSignal, 1e-9)
}

func TestLengthAdequacyCapsAtOne(t *testing.T) {
	long := "word "
	text := ""
	for i := 0; i < 50; i++ {
		text += long
	}
	c, err := corpus.FromTexts(text, text+"extra")
	require.NoError(t, err)

	res, err := New().Summarize(c, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Quality.LengthAdequacy, 1e-9)
}

func TestInsightsAndRecommendations(t *testing.T) {
	c, err := corpus.FromTexts("too short", "way too short", "also short")
	require.NoError(t, err)

	res, err := New().Summarize(c, nil)
	require.NoError(t, err)

	require.NotEmpty(t, res.KeyInsights)
	assert.Contains(t, res.KeyInsights[0], "3 responses")
	assert.Contains(t, res.Recommendations, "Use open-ended prompts to elicit longer responses.")
	assert.Contains(t, res.Warnings, report.WarnLowConfidence)
}

func TestRunEnvelope(t *testing.T) {
	c, err := corpus.FromTexts(
		"alpha beta gamma delta",
		"epsilon zeta eta theta",
		"iota kappa lambda mu",
		"nu xi omicron pi",
		"rho sigma tau upsilon",
	)
	require.NoError(t, err)

	out, err := New().Run(c, nil)
	require.NoError(t, err)
	assert.Equal(t, report.KindStatistics, out.Kind)
	assert.Equal(t, "descriptive_summary", out.Method)
	assert.InDelta(t, 0.62, out.Confidence, 1e-9)

	data, ok := out.Data.(*Result)
	require.True(t, ok)
	assert.Equal(t, 5, data.Descriptive.RecordCount)
}

func TestEmptyCorpus(t *testing.T) {
	var c *corpus.TextCorpus
	_, err := New().Summarize(c, nil)
	require.ErrorIs(t, err, pkgerrors.ErrEmptyCorpus)
}
