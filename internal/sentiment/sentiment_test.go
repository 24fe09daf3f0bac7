package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
)

func TestScoreBoundsAlwaysHold(t *testing.T) {
	c, err := corpus.FromTexts(
		"This product is absolutely amazing and I love using it every day",
		"Terrible experience, everything was broken and support never helped",
		"It arrived on a Tuesday",
		"good",
		"not great, not terrible, somewhere in between honestly",
	)
	require.NoError(t, err)

	a := New()
	res, err := a.Score(c)
	require.NoError(t, err)
	require.Len(t, res.Records, 5)
	for _, r := range res.Records {
		assert.GreaterOrEqual(t, r.Polarity, -1.0, "record %s", r.RecordID)
		assert.LessOrEqual(t, r.Polarity, 1.0, "record %s", r.RecordID)
		assert.GreaterOrEqual(t, r.Subjectivity, 0.0, "record %s", r.RecordID)
		assert.LessOrEqual(t, r.Subjectivity, 1.0, "record %s", r.RecordID)
	}
}

func TestShortTextsGetLowConfidenceNotError(t *testing.T) {
	c, err := corpus.FromTexts("good", "bad", "ok")
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	for _, r := range res.Records {
		assert.True(t, r.LowConfidence, "record %s", r.RecordID)
		assert.False(t, r.Polarity < -1 || r.Polarity > 1)
	}
	assert.Greater(t, res.Records[0].Polarity, 0.0)
	assert.Less(t, res.Records[1].Polarity, 0.0)
}

func TestNegationFlipsPolarity(t *testing.T) {
	c, err := corpus.FromTexts(
		"the interface is good overall",
		"the interface is not good overall",
	)
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	assert.Greater(t, res.Records[0].Polarity, 0.0)
	assert.Less(t, res.Records[1].Polarity, 0.0)
}

func TestIntensifierBoostsIntensity(t *testing.T) {
	c, err := corpus.FromTexts(
		"the support team was helpful during setup",
		"the support team was extremely helpful during setup",
	)
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	assert.Greater(t, res.Records[1].Intensity, res.Records[0].Intensity)
}

func TestIdenticalTextsZeroVolatility(t *testing.T) {
	texts := make([]string, 6)
	for i := range texts {
		texts[i] = "the service was good and reliable"
	}
	c, err := corpus.FromTexts(texts...)
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	assert.Zero(t, res.Volatility)
	assert.Equal(t, res.MeanPolarity, res.MedianPolarity)
}

func TestDominantEmotion(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I was so happy and excited about the launch", EmotionJoy},
		{"honestly frustrated and annoyed by the constant crashes", EmotionAnger},
		{"worried and anxious about data privacy", EmotionFear},
		{"the package arrived yesterday", EmotionNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c, err := corpus.FromTexts(tt.text)
			require.NoError(t, err)
			res, err := New().Score(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Records[0].Emotion)
		})
	}
}

func TestTrendDirection(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	texts := []string{
		"terrible start, everything was broken",
		"still bad but support responded",
		"okay now, works fine",
		"really good, much improved",
		"excellent, love the new version",
	}
	entries := make([]corpus.Entry, len(texts))
	for i, text := range texts {
		ts := base.AddDate(0, 0, i)
		entries[i] = corpus.Entry{Text: text, Timestamp: &ts}
	}
	c, err := corpus.New(entries)
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	require.Len(t, res.Trend, 5)
	assert.Equal(t, TrendImproving, res.TrendDirection)
	for i := 1; i < len(res.Trend); i++ {
		assert.False(t, res.Trend[i].Timestamp.Before(res.Trend[i-1].Timestamp))
	}
}

func TestCategoryBreakdown(t *testing.T) {
	c, err := corpus.New([]corpus.Entry{
		{Text: "checkout flow is great and easy", Category: "ux"},
		{Text: "navigation is confusing and frustrating", Category: "ux"},
		{Text: "pricing is terrible and expensive", Category: "pricing"},
	})
	require.NoError(t, err)

	res, err := New().Score(c)
	require.NoError(t, err)
	require.Len(t, res.ByCategory, 2)
	assert.Equal(t, "ux", res.ByCategory[0].Category)
	assert.Equal(t, 2, res.ByCategory[0].Count)
	assert.Less(t, res.ByCategory[1].MeanPolarity, 0.0)
}

func TestRunEnvelope(t *testing.T) {
	c, err := corpus.FromTexts("good", "bad", "ok")
	require.NoError(t, err)

	env, err := New().Run(c)
	require.NoError(t, err)
	assert.Equal(t, report.KindSentiment, env.Kind)
	assert.Equal(t, "lexicon_weighted", env.Method)
	assert.NotEmpty(t, env.Summary)
	res, ok := env.Data.(*Result)
	require.True(t, ok)
	assert.Len(t, res.Records, 3)
}
