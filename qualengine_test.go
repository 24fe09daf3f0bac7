package qualengine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstudy/qualengine"
)

func TestGenerateReportEndToEnd(t *testing.T) {
	c, err := qualengine.CorpusFromTexts(
		"The pricing model is confusing and the plan costs too much",
		"Support was excellent, quick answers and friendly staff",
		"App crashes constantly on my phone, very frustrating",
		"Love the clean interface but hate the billing surprises",
		"Onboarding was smooth and the tutorial was genuinely helpful",
		"Another crash today, this tool is unreliable under load",
	)
	require.NoError(t, err)

	rep, err := qualengine.GenerateReport(context.Background(), c, qualengine.Options{})
	require.NoError(t, err)

	sent, ok := rep.Get(qualengine.KindSentiment)
	require.True(t, ok)
	assert.NotEmpty(t, sent.Summary)

	stats, ok := rep.Get(qualengine.KindStatistics)
	require.True(t, ok)
	assert.GreaterOrEqual(t, stats.Confidence, 0.0)
	assert.LessOrEqual(t, stats.Confidence, 1.0)
	assert.Equal(t, qualengine.KindStatistics, rep.Order[len(rep.Order)-1])
}

func TestGenerateSurveyReportEndToEnd(t *testing.T) {
	q1, err := qualengine.CorpusFromTexts(
		"very happy with the service",
		"good value overall",
		"pleasant experience every time",
	)
	require.NoError(t, err)
	q2, err := qualengine.CorpusFromTexts(
		"checkout keeps failing",
		"terrible wait times",
		"the app is broken half the time",
	)
	require.NoError(t, err)

	d := qualengine.NewSurveyDataset()
	require.NoError(t, d.AddQuestion("what_works", q1))
	require.NoError(t, d.AddQuestion("what_fails", q2))

	rep, err := qualengine.GenerateSurveyReport(context.Background(), d, qualengine.Options{})
	require.NoError(t, err)
	_, ok := rep.Get(qualengine.KindSurvey)
	assert.True(t, ok)
}

func TestEngineWithConfigAndMetrics(t *testing.T) {
	cfg, err := qualengine.LoadConfig("")
	require.NoError(t, err)
	engine := qualengine.NewEngine(cfg, qualengine.NewMetrics())

	c, err := qualengine.CorpusFromTexts(
		"the report export keeps timing out",
		"syncing works well even with a weak connection",
		"field teams love the offline mode",
		"attachment uploads fail on older devices",
		"the new form builder saved us hours",
		"translations are missing for half the labels",
	)
	require.NoError(t, err)

	rep, err := engine.Run(context.Background(), c, qualengine.Options{
		NThemes:    2,
		RandomSeed: 11,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rep.Order)
}

func TestStandaloneAnalyzersHaveNoMinimum(t *testing.T) {
	c, err := qualengine.CorpusFromTexts("great product", "terrible support")
	require.NoError(t, err)

	res, err := qualengine.NewSentimentAnalyzer().Score(c)
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
}
