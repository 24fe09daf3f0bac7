package corpus

import (
	"fmt"

	"github.com/fieldstudy/qualengine/pkg/errors"
)

// SurveyDataset maps question ids to their answer corpora, preserving the
// order questions were added. Corpora may differ in length; a question with a
// nil corpus had no responses.
type SurveyDataset struct {
	order     []string
	questions map[string]*TextCorpus
}

// NewSurveyDataset returns an empty dataset.
func NewSurveyDataset() *SurveyDataset {
	return &SurveyDataset{questions: make(map[string]*TextCorpus)}
}

// AddQuestion registers a question and its answers. A nil corpus records a
// question that received no responses. Question ids must be unique.
func (d *SurveyDataset) AddQuestion(questionID string, c *TextCorpus) error {
	if questionID == "" {
		return errors.NewValidation("question_id", "question id must not be empty")
	}
	if _, dup := d.questions[questionID]; dup {
		return errors.NewValidationWrap(errors.ErrDuplicateQuestion,
			"question_id", "question %q already registered", questionID)
	}
	d.order = append(d.order, questionID)
	d.questions[questionID] = c
	return nil
}

// Questions returns the question ids in insertion order.
func (d *SurveyDataset) Questions() []string {
	return d.order
}

// Corpus returns the answers for a question; nil means no responses.
func (d *SurveyDataset) Corpus(questionID string) *TextCorpus {
	return d.questions[questionID]
}

// Len returns the number of questions.
func (d *SurveyDataset) Len() int {
	return len(d.order)
}

// TotalResponses returns the response count summed over all questions.
func (d *SurveyDataset) TotalResponses() int {
	total := 0
	for _, c := range d.questions {
		total += c.Len()
	}
	return total
}

// Flatten merges every question's answers into one corpus for corpus-level
// analyzers, prefixing record ids with their question id to keep them unique.
func (d *SurveyDataset) Flatten() (*TextCorpus, error) {
	var entries []Entry
	for _, qid := range d.order {
		c := d.questions[qid]
		if c == nil {
			continue
		}
		for _, r := range c.Records() {
			entries = append(entries, Entry{
				ID:        fmt.Sprintf("%s/%s", qid, r.ID),
				Text:      r.Text,
				Timestamp: r.Timestamp,
				Category:  r.Category,
				Metadata:  r.Metadata,
			})
		}
	}
	return New(entries)
}
