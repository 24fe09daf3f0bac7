package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
)

func TestAnalyzeStructureLengthStats(t *testing.T) {
	c, err := corpus.FromTexts(
		"one two three",
		"one two three four five",
		"one",
	)
	require.NoError(t, err)

	res, err := New(Config{}).AnalyzeStructure(c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Words.Min)
	assert.Equal(t, 5, res.Words.Max)
	assert.InDelta(t, 3.0, res.Words.Mean, 1e-9)
	assert.Greater(t, res.Words.Stdev, 0.0)
}

func TestLexicalDiversity(t *testing.T) {
	varied, err := corpus.FromTexts("every single word here differs completely")
	require.NoError(t, err)
	repetitive, err := corpus.FromTexts("same same same same same same")
	require.NoError(t, err)

	a := New(Config{})
	variedRes, err := a.AnalyzeStructure(varied)
	require.NoError(t, err)
	repetitiveRes, err := a.AnalyzeStructure(repetitive)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, variedRes.LexicalDiversity, 1e-9)
	assert.Greater(t, variedRes.LexicalDiversity, repetitiveRes.LexicalDiversity)
}

func TestNGramTopKStable(t *testing.T) {
	c, err := corpus.FromTexts(
		"slow checkout process ruined everything",
		"slow checkout process again today",
		"fast checkout process once",
	)
	require.NoError(t, err)

	res, err := New(Config{NGramSizes: []int{2}, TopK: 3}).AnalyzeStructure(c)
	require.NoError(t, err)
	grams := res.NGrams[2]
	require.NotEmpty(t, grams)
	assert.Equal(t, "checkout process", grams[0].Text)
	assert.Equal(t, 3, grams[0].Count)
	assert.LessOrEqual(t, len(grams), 3)
}

func TestCategorization(t *testing.T) {
	c, err := corpus.New([]corpus.Entry{
		{ID: "a", Text: "the price and cost are too high for the budget"},
		{ID: "b", Text: "the interface design and layout look clean"},
		{ID: "c", Text: "completely unrelated commentary about weather"},
	})
	require.NoError(t, err)

	a := New(Config{
		CategoryKeywords: map[string][]string{
			"pricing": {"price", "cost", "budget", "expensive"},
			"design":  {"interface", "design", "layout", "visual"},
		},
	})
	res, err := a.AnalyzeStructure(c)
	require.NoError(t, err)
	assert.Equal(t, "pricing", res.Categories["a"])
	assert.Equal(t, "design", res.Categories["b"])
	assert.Equal(t, Uncategorized, res.Categories["c"])
	assert.Equal(t, 1, res.CategoryCounts[Uncategorized])
}

func TestQuestionRate(t *testing.T) {
	c, err := corpus.FromTexts(
		"Why does it keep crashing?",
		"It keeps crashing.",
	)
	require.NoError(t, err)

	res, err := New(Config{}).AnalyzeStructure(c)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.QuestionRate, 1e-9)
}

func TestRunFlagsSmallCorpus(t *testing.T) {
	c, err := corpus.FromTexts("first response", "second response")
	require.NoError(t, err)

	env, err := New(Config{}).Run(c)
	require.NoError(t, err)
	assert.Equal(t, report.KindContent, env.Kind)
	assert.Contains(t, env.Warnings, report.WarnInsufficientData)
	assert.Less(t, env.Confidence, 1.0)
}
