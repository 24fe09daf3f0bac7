// Package corpus defines the shared data model for the analysis pipeline: an
// immutable ordered collection of text records, plus the multi-question
// survey dataset built on top of it. Validation happens at construction so
// analyzers never see empty or duplicate records.
package corpus

import (
	"fmt"
	"strings"
	"time"

	"github.com/fieldstudy/qualengine/pkg/errors"
)

// Record is the immutable unit of analysis. Text is guaranteed non-empty
// after construction.
type Record struct {
	ID        string
	Text      string
	Timestamp *time.Time
	Category  string
	Metadata  map[string]string
}

// Entry is the caller-facing construction input for one record. ID is
// optional; missing ids are assigned positionally.
type Entry struct {
	ID        string
	Text      string
	Timestamp *time.Time
	Category  string
	Metadata  map[string]string
}

// TextCorpus is an ordered, read-only sequence of Records sharing a logical
// source. It is never mutated after construction.
type TextCorpus struct {
	records []Record
}

// New validates entries and builds a TextCorpus. Entries with empty or
// whitespace-only text are rejected, not filtered; record ids must be unique.
func New(entries []Entry) (*TextCorpus, error) {
	if len(entries) == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	fields := make(map[string]string)
	var cause error
	seen := make(map[string]int, len(entries))
	records := make([]Record, 0, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Text) == "" {
			fields[fmt.Sprintf("records[%d].text", i)] = "text must not be empty"
			continue
		}
		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("r%d", i+1)
		}
		if prev, dup := seen[id]; dup {
			fields[fmt.Sprintf("records[%d].id", i)] = fmt.Sprintf(
				"id %q already used by record %d", id, prev)
			cause = errors.ErrDuplicateRecordID
			continue
		}
		seen[id] = i
		records = append(records, Record{
			ID:        id,
			Text:      entry.Text,
			Timestamp: entry.Timestamp,
			Category:  entry.Category,
			Metadata:  entry.Metadata,
		})
	}
	if len(fields) > 0 {
		return nil, &errors.ValidationError{Fields: fields, Cause: cause}
	}
	return &TextCorpus{records: records}, nil
}

// FromTexts builds a corpus from bare strings with positional ids.
func FromTexts(texts ...string) (*TextCorpus, error) {
	entries := make([]Entry, len(texts))
	for i, text := range texts {
		entries[i] = Entry{Text: text}
	}
	return New(entries)
}

// Len returns the number of records.
func (c *TextCorpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns the ordered record sequence. Callers must not modify it.
func (c *TextCorpus) Records() []Record {
	return c.records
}

// Record returns the record at index i.
func (c *TextCorpus) Record(i int) Record {
	return c.records[i]
}

// Texts returns the record texts in order.
func (c *TextCorpus) Texts() []string {
	texts := make([]string, len(c.records))
	for i, r := range c.records {
		texts[i] = r.Text
	}
	return texts
}

// HasTimestamps reports whether every record carries a timestamp, which is
// what trend analysis requires.
func (c *TextCorpus) HasTimestamps() bool {
	if c.Len() == 0 {
		return false
	}
	for _, r := range c.records {
		if r.Timestamp == nil {
			return false
		}
	}
	return true
}

// HasCategories reports whether at least one record carries a category.
func (c *TextCorpus) HasCategories() bool {
	for _, r := range c.records {
		if r.Category != "" {
			return true
		}
	}
	return false
}

// Categories returns the distinct non-empty categories in first-seen order.
func (c *TextCorpus) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.records {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// MetadataValues returns the distinct values of the given metadata key in
// first-seen order, skipping records without the key.
func (c *TextCorpus) MetadataValues(key string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range c.records {
		v, ok := r.Metadata[key]
		if !ok || v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
