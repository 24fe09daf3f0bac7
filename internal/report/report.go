// Package report defines the analyzer result envelope and the merged report
// assembled by the orchestrator. Results are immutable once produced.
package report

import "time"

// Kind identifies an analyzer variant. The set is closed; dispatch over it
// is a fixed table, never reflection.
type Kind string

const (
	KindSentiment  Kind = "sentiment"
	KindThematic   Kind = "thematic"
	KindContent    Kind = "content"
	KindCoding     Kind = "coding"
	KindSurvey     Kind = "survey"
	KindStatistics Kind = "statistics"
)

// Kinds returns every analyzer kind in the report's fixed output order.
// Statistics is last because it may summarise the other results.
func Kinds() []Kind {
	return []Kind{
		KindSentiment,
		KindThematic,
		KindContent,
		KindCoding,
		KindSurvey,
		KindStatistics,
	}
}

// Valid reports whether k names a known analyzer.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Warning codes embedded in result envelopes. Warnings are non-fatal; the
// analyzer degraded but still produced a result.
const (
	WarnLowConfidence      = "low_confidence"
	WarnInsufficientData   = "insufficient_data"
	WarnDegradedClustering = "insufficient_data_for_clustering"
	WarnDidNotConverge     = "did_not_converge"
	WarnNoTimestamps       = "no_timestamps"
	WarnNoCategories       = "no_categories"
)

// StatusNoResponses marks a survey question that received no answers.
const StatusNoResponses = "no_responses"

// AnalysisResult is the common envelope around one analyzer's output. Data
// holds the analyzer-specific result struct.
type AnalysisResult struct {
	Kind       Kind
	Method     string
	Confidence float64
	Warnings   []string
	Summary    string
	Data       any
}

// Degraded reports whether the result carries any warning.
func (r AnalysisResult) Degraded() bool {
	return len(r.Warnings) > 0
}

// FailedAnalyzer records an analyzer that errored during an auto run.
// Partial-failure semantics: the rest of the report is still produced.
type FailedAnalyzer struct {
	Kind  Kind
	Error string
}

// Recommendation is one ranked analyzer suggestion from dataset profiling.
type Recommendation struct {
	Kind      Kind
	Rationale string
	Degraded  bool
}

// Report is the merged, ordered output of one orchestrator call.
type Report struct {
	Profile         string
	GeneratedAt     time.Time
	Order           []Kind
	Results         map[Kind]AnalysisResult
	Failed          []FailedAnalyzer
	Recommendations []string
}

// NewReport returns an empty report for the given dataset profile.
func NewReport(profile string) *Report {
	return &Report{
		Profile:     profile,
		GeneratedAt: time.Now().UTC(),
		Results:     make(map[Kind]AnalysisResult),
	}
}

// Add appends a result, keeping insertion order.
func (r *Report) Add(res AnalysisResult) {
	r.Order = append(r.Order, res.Kind)
	r.Results[res.Kind] = res
}

// AddFailure records a failed analyzer.
func (r *Report) AddFailure(kind Kind, err error) {
	r.Failed = append(r.Failed, FailedAnalyzer{Kind: kind, Error: err.Error()})
}

// Get returns the result for kind, if present.
func (r *Report) Get(kind Kind) (AnalysisResult, bool) {
	res, ok := r.Results[kind]
	return res, ok
}
