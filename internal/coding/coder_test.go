package coding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldstudy/qualengine/internal/corpus"
	pkgerrors "github.com/fieldstudy/qualengine/pkg/errors"
)

func codedCorpus(t *testing.T) *corpus.TextCorpus {
	t.Helper()
	c, err := corpus.FromTexts(
		"The price was too high for what you get",
		"Support was helpful but the PRICE kept me away",
		"I love the design, very clean",
		"pricey plans and confusing price tiers",
	)
	require.NoError(t, err)
	return c
}

func TestCreateCodeRejectsDuplicates(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "mentions of pricing", []string{"price"}))
	err := s.CreateCode("cost", "second definition", nil)
	require.ErrorIs(t, err, pkgerrors.ErrDuplicateCode)
}

func TestAutoCodeWordBoundaryCaseInsensitive(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "", []string{"price"}))

	segments, err := s.AutoCodeKeywords(codedCorpus(t))
	require.NoError(t, err)

	// "PRICE" matches case-insensitively; "pricey" must not match on a
	// word boundary, but the standalone "price" in the same record does
	byRecord := make(map[string]int)
	for _, seg := range segments {
		assert.Equal(t, "cost", seg.Code)
		byRecord[seg.RecordID]++
	}
	assert.Equal(t, 1, byRecord["r1"])
	assert.Equal(t, 1, byRecord["r2"])
	assert.Zero(t, byRecord["r3"])
	assert.Equal(t, 1, byRecord["r4"])
}

func TestAutoCodeIdempotent(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "", []string{"price", "pricey"}))
	require.NoError(t, s.CreateCode("praise", "", []string{"love", "helpful"}))

	c := codedCorpus(t)
	first, err := s.AutoCodeKeywords(c)
	require.NoError(t, err)
	second, err := s.AutoCodeKeywords(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, first, s.Segments())
}

func TestManualSegmentsSurviveAutoCoding(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "", []string{"price"}))
	require.NoError(t, s.CreateCode("tone", "hand-applied only", nil))
	require.NoError(t, s.ApplySegment(Segment{RecordID: "r3", Start: 2, End: 6, Code: "tone"}))

	c := codedCorpus(t)
	_, err := s.AutoCodeKeywords(c)
	require.NoError(t, err)

	freq := s.CodeFrequency()
	assert.Equal(t, 1, freq["tone"])
	assert.Equal(t, 3, freq["cost"])
	assert.Contains(t, s.Segments(), Segment{RecordID: "r3", Start: 2, End: 6, Code: "tone"})

	// a second auto-coding run replaces only its own output
	_, err = s.AutoCodeKeywords(c)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CodeFrequency()["tone"])
	assert.Len(t, s.Segments(), 4)
}

func TestOverlappingCodesBothRetained(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("a", "", []string{"helpful"}))
	require.NoError(t, s.CreateCode("b", "", []string{"helpful"}))

	c, err := corpus.FromTexts("the staff were helpful")
	require.NoError(t, err)
	segments, err := s.AutoCodeKeywords(c)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, segments[0].Start, segments[1].Start)
	assert.NotEqual(t, segments[0].Code, segments[1].Code)
}

func TestCodeFrequencyAndCooccurrence(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "", []string{"price"}))
	require.NoError(t, s.CreateCode("praise", "", []string{"helpful", "love"}))
	require.NoError(t, s.CreateCode("unused", "", []string{"zzzz"}))

	_, err := s.AutoCodeKeywords(codedCorpus(t))
	require.NoError(t, err)

	freq := s.CodeFrequency()
	assert.Equal(t, 3, freq["cost"])
	assert.Equal(t, 2, freq["praise"])
	assert.Zero(t, freq["unused"])

	co := s.CodeCooccurrence()
	// cost on r1,r2,r4; praise on r2,r3 -> overlap r2, union 4
	assert.InDelta(t, 0.25, co["cost"]["praise"], 1e-9)
}

func TestInterCoderReliability(t *testing.T) {
	segs := []Segment{
		{RecordID: "r1", Start: 0, End: 5, Code: "cost"},
		{RecordID: "r2", Start: 3, End: 9, Code: "cost"},
	}
	disjoint := []Segment{
		{RecordID: "r3", Start: 0, End: 5, Code: "cost"},
	}

	assert.Equal(t, 1.0, InterCoderReliability(segs, segs))
	assert.Equal(t, 0.0, InterCoderReliability(segs, disjoint))
	assert.Equal(t, 1.0, InterCoderReliability(nil, nil))
	assert.Equal(t, 0.0, InterCoderReliability(segs, nil))
}

func TestApplySegmentValidation(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.CreateCode("cost", "", nil))

	err := s.ApplySegment(Segment{RecordID: "r1", Start: 0, End: 4, Code: "ghost"})
	require.ErrorIs(t, err, pkgerrors.ErrUnknownCode)

	err = s.ApplySegment(Segment{RecordID: "r1", Start: 4, End: 4, Code: "cost"})
	require.Error(t, err)

	require.NoError(t, s.ApplySegment(Segment{RecordID: "r1", Start: 0, End: 4, Code: "cost"}))
	assert.Len(t, s.Segments(), 1)
}
