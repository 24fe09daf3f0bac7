// Package survey composes the content and sentiment analyzers over
// multi-question datasets: per-question reports, cross-question comparison,
// and per-respondent engagement patterns.
package survey

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/fieldstudy/qualengine/internal/content"
	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/sentiment"
	"github.com/fieldstudy/qualengine/internal/textproc"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
)

// QuestionReport is one question's sub-analysis. Status is
// report.StatusNoResponses when nobody answered; Sentiment and Content are
// nil in that case.
type QuestionReport struct {
	QuestionID string
	Responses  int
	Status     string
	Sentiment  *sentiment.Result
	Content    *content.Result
}

// QuestionRank pairs a question with a comparison metric.
type QuestionRank struct {
	QuestionID string
	Value      float64
}

// Comparison ranks questions against each other.
type Comparison struct {
	BySentiment  []QuestionRank
	ByLength     []QuestionRank
	MostPositive string
	MostNegative string
	MostDetailed string
}

// RespondentPattern is one respondent's engagement profile across the
// survey. Respondents who answered nothing are excluded entirely.
type RespondentPattern struct {
	RespondentID      string
	Answered          int
	CompletionRate    float64
	MeanWords         float64
	LengthConsistency float64
	Engagement        float64
}

// Result is the envelope payload for a full survey run.
type Result struct {
	Questions   []QuestionReport
	Comparison  *Comparison
	Respondents []RespondentPattern
	Warnings    []string
}

// Analyzer composes per-question analysis. Stateless between calls.
type Analyzer struct {
	content       *content.Analyzer
	sentiment     *sentiment.Analyzer
	respondentKey string
	logger        *slog.Logger
}

// Config tunes the survey analyzer.
type Config struct {
	Content       content.Config
	RespondentKey string
}

// New builds a survey Analyzer from cfg.
func New(cfg Config) *Analyzer {
	key := cfg.RespondentKey
	if key == "" {
		key = "respondent_id"
	}
	return &Analyzer{
		content:       content.New(cfg.Content),
		sentiment:     sentiment.New(),
		respondentKey: key,
		logger:        logger.WithComponent("survey"),
	}
}

// AnalyzeByQuestion runs content and sentiment analysis on every question's
// corpus. Questions with no responses get an explicit no_responses entry
// rather than an error.
func (a *Analyzer) AnalyzeByQuestion(d *corpus.SurveyDataset) ([]QuestionReport, error) {
	if d.Len() == 0 {
		return nil, errors.NewValidation("dataset", "survey dataset has no questions")
	}
	reports := make([]QuestionReport, 0, d.Len())
	for _, qid := range d.Questions() {
		c := d.Corpus(qid)
		if c.Len() == 0 {
			reports = append(reports, QuestionReport{
				QuestionID: qid,
				Status:     report.StatusNoResponses,
			})
			continue
		}
		qr := QuestionReport{QuestionID: qid, Responses: c.Len(), Status: "ok"}
		if sentRes, err := a.sentiment.Score(c); err == nil {
			qr.Sentiment = sentRes
		}
		if contentRes, err := a.content.AnalyzeStructure(c); err == nil {
			qr.Content = contentRes
		}
		reports = append(reports, qr)
	}
	return reports, nil
}

// CompareQuestions ranks questions by mean sentiment and mean answer length.
func (a *Analyzer) CompareQuestions(d *corpus.SurveyDataset) (*Comparison, error) {
	reports, err := a.AnalyzeByQuestion(d)
	if err != nil {
		return nil, err
	}
	cmp := &Comparison{}
	for _, qr := range reports {
		if qr.Status == report.StatusNoResponses {
			continue
		}
		if qr.Sentiment != nil {
			cmp.BySentiment = append(cmp.BySentiment, QuestionRank{
				QuestionID: qr.QuestionID,
				Value:      qr.Sentiment.MeanPolarity,
			})
		}
		if qr.Content != nil {
			cmp.ByLength = append(cmp.ByLength, QuestionRank{
				QuestionID: qr.QuestionID,
				Value:      qr.Content.Words.Mean,
			})
		}
	}
	sort.SliceStable(cmp.BySentiment, func(i, j int) bool {
		return cmp.BySentiment[i].Value > cmp.BySentiment[j].Value
	})
	sort.SliceStable(cmp.ByLength, func(i, j int) bool {
		return cmp.ByLength[i].Value > cmp.ByLength[j].Value
	})
	if len(cmp.BySentiment) > 0 {
		cmp.MostPositive = cmp.BySentiment[0].QuestionID
		cmp.MostNegative = cmp.BySentiment[len(cmp.BySentiment)-1].QuestionID
	}
	if len(cmp.ByLength) > 0 {
		cmp.MostDetailed = cmp.ByLength[0].QuestionID
	}
	return cmp, nil
}

// AnalyzeRespondentPatterns derives a per-respondent engagement score from
// completion rate and response-length consistency. Respondents are linked
// across questions by the configured metadata key; a respondent with zero
// answered questions never appears in the output.
func (a *Analyzer) AnalyzeRespondentPatterns(d *corpus.SurveyDataset) ([]RespondentPattern, error) {
	if d.Len() == 0 {
		return nil, errors.NewValidation("dataset", "survey dataset has no questions")
	}
	wordCounts := make(map[string][]float64)
	var order []string
	for _, qid := range d.Questions() {
		c := d.Corpus(qid)
		if c.Len() == 0 {
			continue
		}
		for _, r := range c.Records() {
			rid, ok := r.Metadata[a.respondentKey]
			if !ok || rid == "" {
				continue
			}
			if _, seen := wordCounts[rid]; !seen {
				order = append(order, rid)
			}
			wordCounts[rid] = append(wordCounts[rid], float64(len(textproc.Words(r.Text))))
		}
	}

	totalQuestions := float64(d.Len())
	patterns := make([]RespondentPattern, 0, len(order))
	for _, rid := range order {
		counts := wordCounts[rid]
		answered := len(counts)
		meanWords := meanOf(counts)
		completion := float64(answered) / totalQuestions
		consistency := lengthConsistency(counts, meanWords)
		patterns = append(patterns, RespondentPattern{
			RespondentID:      rid,
			Answered:          answered,
			CompletionRate:    completion,
			MeanWords:         meanWords,
			LengthConsistency: consistency,
			Engagement:        engagementScore(completion, consistency),
		})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Engagement > patterns[j].Engagement
	})
	return patterns, nil
}

// Run performs the full survey composition and wraps it in the shared
// envelope.
func (a *Analyzer) Run(d *corpus.SurveyDataset) (report.AnalysisResult, error) {
	questions, err := a.AnalyzeByQuestion(d)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	res := &Result{Questions: questions}
	if cmp, err := a.CompareQuestions(d); err == nil {
		res.Comparison = cmp
	}
	if patterns, err := a.AnalyzeRespondentPatterns(d); err == nil {
		res.Respondents = patterns
	}
	answered := 0
	for _, qr := range questions {
		if qr.Status != report.StatusNoResponses {
			answered++
		}
	}
	if answered < len(questions) {
		res.Warnings = append(res.Warnings, report.WarnInsufficientData)
	}
	confidence := 0.0
	if len(questions) > 0 {
		confidence = float64(answered) / float64(len(questions))
	}
	return report.AnalysisResult{
		Kind:       report.KindSurvey,
		Method:     "per_question_composition",
		Confidence: confidence,
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d questions (%d answered), %d respondents tracked",
			len(questions), answered, len(res.Respondents)),
		Data: res,
	}, nil
}

// lengthConsistency maps the coefficient of variation of a respondent's
// answer lengths onto (0,1]; perfectly uniform lengths score 1.
func lengthConsistency(counts []float64, mean float64) float64 {
	if len(counts) < 2 || mean == 0 {
		return 1
	}
	var sq float64
	for _, v := range counts {
		d := v - mean
		sq += d * d
	}
	stdev := math.Sqrt(sq / float64(len(counts)))
	return 1 / (1 + stdev/mean)
}

// engagementScore weights completion over consistency 60/40.
func engagementScore(completion, consistency float64) float64 {
	score := 0.6*completion + 0.4*consistency
	return math.Max(0, math.Min(1, score))
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
