package orchestrator

import (
	"fmt"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/textproc"
)

// Profile classifies a dataset by shape, driving method selection.
type Profile string

const (
	ProfileInterview        Profile = "interview"
	ProfileOpenSurvey       Profile = "open_survey"
	ProfileStructuredSurvey Profile = "structured_survey"
	ProfileMixed            Profile = "mixed"
	ProfileInsufficient     Profile = "insufficient_data"
)

// questionIDKey is the metadata key whose presence marks survey-style
// grouping inside a flat corpus.
const questionIDKey = "question_id"

// longFormWords is the mean word count above which a corpus reads as
// interview transcripts rather than survey answers.
const longFormWords = 40.0

// Minimum record counts per analyzer for reliable operation. Thematic
// analysis below its minimum degrades to a single theme instead of being
// dropped; the others are simply not recommended.
var minRecords = map[report.Kind]int{
	report.KindSentiment: 5,
	report.KindContent:   5,
	report.KindCoding:    8,
	report.KindThematic:  10,
}

// DatasetProfile is the outcome of the classification step: the detected
// shape plus a ranked list of recommended analyzers with rationales.
type DatasetProfile struct {
	Profile         Profile
	RecordCount     int
	AvgWords        float64
	HasTimestamps   bool
	HasCategories   bool
	HasQuestionIDs  bool
	Recommendations []report.Recommendation
}

// Detect inspects a flat corpus and classifies it.
func Detect(c *corpus.TextCorpus, hasCodes bool) DatasetProfile {
	p := DatasetProfile{
		RecordCount:   c.Len(),
		HasTimestamps: c.HasTimestamps(),
		HasCategories: c.HasCategories(),
	}
	totalWords := 0
	for _, r := range c.Records() {
		totalWords += len(textproc.Words(r.Text))
		if v, ok := r.Metadata[questionIDKey]; ok && v != "" {
			p.HasQuestionIDs = true
		}
	}
	if c.Len() > 0 {
		p.AvgWords = float64(totalWords) / float64(c.Len())
	}

	switch {
	case c.Len() < minRecords[report.KindSentiment]:
		p.Profile = ProfileInsufficient
	case p.HasQuestionIDs && p.AvgWords >= longFormWords:
		p.Profile = ProfileMixed
	case p.HasQuestionIDs:
		p.Profile = ProfileOpenSurvey
	case p.AvgWords >= longFormWords:
		p.Profile = ProfileInterview
	default:
		p.Profile = ProfileOpenSurvey
	}

	p.Recommendations = recommend(p, hasCodes)
	return p
}

// DetectSurvey classifies a multi-question dataset.
func DetectSurvey(d *corpus.SurveyDataset) DatasetProfile {
	p := DatasetProfile{
		RecordCount:    d.TotalResponses(),
		HasQuestionIDs: true,
	}
	if d.Len() > 1 {
		p.Profile = ProfileStructuredSurvey
	} else {
		p.Profile = ProfileOpenSurvey
	}
	p.Recommendations = append(p.Recommendations, report.Recommendation{
		Kind: report.KindSurvey,
		Rationale: fmt.Sprintf(
			"dataset groups %d responses under %d questions", p.RecordCount, d.Len()),
	})
	return p
}

// recommend ranks applicable analyzers for a flat corpus. Analyzers below
// their minimum are either omitted or, for thematic, flagged degraded.
func recommend(p DatasetProfile, hasCodes bool) []report.Recommendation {
	var recs []report.Recommendation
	n := p.RecordCount

	if n >= minRecords[report.KindSentiment] {
		rationale := "free-text responses carry opinion signal"
		if p.HasTimestamps {
			rationale += "; timestamps enable trend analysis"
		}
		if p.HasCategories {
			rationale += "; categories enable cross-group comparison"
		}
		recs = append(recs, report.Recommendation{
			Kind:      report.KindSentiment,
			Rationale: rationale,
		})
	}
	if n >= minRecords[report.KindThematic] {
		recs = append(recs, report.Recommendation{
			Kind: report.KindThematic,
			Rationale: fmt.Sprintf(
				"%d records support multi-theme extraction", n),
		})
	} else if n >= minRecords[report.KindSentiment] {
		recs = append(recs, report.Recommendation{
			Kind: report.KindThematic,
			Rationale: fmt.Sprintf(
				"%d records is below the clustering minimum of %d; a single degraded theme will be produced",
				n, minRecords[report.KindThematic]),
			Degraded: true,
		})
	}
	if n >= minRecords[report.KindContent] {
		rationale := "structural features apply to any corpus"
		if p.Profile == ProfileInterview {
			rationale = "long-form responses benefit from structural analysis"
		}
		recs = append(recs, report.Recommendation{
			Kind:      report.KindContent,
			Rationale: rationale,
		})
	}
	if hasCodes && n >= minRecords[report.KindCoding] {
		recs = append(recs, report.Recommendation{
			Kind:      report.KindCoding,
			Rationale: "a keyword code scheme was supplied",
		})
	}
	recs = append(recs, report.Recommendation{
		Kind:      report.KindStatistics,
		Rationale: "descriptive statistics apply to any corpus",
	})
	return recs
}
