// Package coding applies a user-defined code scheme to record segments:
// keyword-triggered auto-coding, manual application, code frequency and
// co-occurrence, and inter-coder agreement. A Session is the caller-owned
// code registry; its lifetime spans as many calls as the caller wants.
package coding

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
)

// MinRecords is the corpus size below which auto-coding results are
// flagged as unreliable by the orchestrator.
const MinRecords = 8

// Code is a caller-defined tag. Keywords, when present, drive auto-coding.
type Code struct {
	Name        string
	Description string
	Keywords    []string
}

// Segment is one application of a code to a character span of a record.
type Segment struct {
	RecordID string
	Start    int
	End      int
	Code     string
}

// Result is the envelope payload for an auto-coding run.
type Result struct {
	Segments     []Segment
	Frequency    map[string]int
	Cooccurrence map[string]map[string]float64
	Warnings     []string
}

// Session holds the code registry and the segments applied so far. Manually
// applied segments and auto-coded segments are tracked separately so an
// auto-coding run never discards manual work. It is owned by the caller and
// not safe for concurrent use.
type Session struct {
	codes  map[string]Code
	order  []string
	manual []Segment
	auto   []Segment
	logger *slog.Logger
}

// NewSession returns an empty coding session.
func NewSession() *Session {
	return &Session{
		codes:  make(map[string]Code),
		logger: logger.WithComponent("coding"),
	}
}

// CreateCode registers a code. Names are unique within a session; codes
// never implicitly merge.
func (s *Session) CreateCode(name, description string, keywords []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidation("name", "code name must not be empty")
	}
	if _, dup := s.codes[name]; dup {
		return fmt.Errorf("%w: %q", errors.ErrDuplicateCode, name)
	}
	s.codes[name] = Code{Name: name, Description: description, Keywords: keywords}
	s.order = append(s.order, name)
	return nil
}

// Codes returns the registered codes in creation order.
func (s *Session) Codes() []Code {
	out := make([]Code, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.codes[name])
	}
	return out
}

// ApplySegment records a manual code application.
func (s *Session) ApplySegment(seg Segment) error {
	if _, ok := s.codes[seg.Code]; !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownCode, seg.Code)
	}
	if seg.Start < 0 || seg.End <= seg.Start {
		return errors.NewValidation("span", "invalid span [%d,%d)", seg.Start, seg.End)
	}
	s.manual = append(s.manual, seg)
	return nil
}

// Segments returns every applied segment, manual and auto-coded, in
// deterministic order.
func (s *Session) Segments() []Segment {
	merged := make([]Segment, 0, len(s.manual)+len(s.auto))
	merged = append(merged, s.manual...)
	merged = append(merged, s.auto...)
	sortSegments(merged)
	return merged
}

// AutoCodeKeywords scans each record for case-insensitive word-boundary
// keyword matches and emits one segment per match span per code.
// Overlapping spans from different codes are all retained. The run replaces
// any previous auto-coded segments, so re-running with the same codes on
// the same corpus is idempotent; manually applied segments are left intact.
func (s *Session) AutoCodeKeywords(c *corpus.TextCorpus) ([]Segment, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	var applied []Segment
	for _, name := range s.order {
		code := s.codes[name]
		for _, keyword := range code.Keywords {
			re, err := keywordPattern(keyword)
			if err != nil {
				return nil, errors.NewValidation("keywords", "code %q keyword %q: %v", name, keyword, err)
			}
			for _, r := range c.Records() {
				for _, span := range re.FindAllStringIndex(r.Text, -1) {
					applied = append(applied, Segment{
						RecordID: r.ID,
						Start:    span[0],
						End:      span[1],
						Code:     name,
					})
				}
			}
		}
	}
	sortSegments(applied)
	s.auto = applied
	s.logger.Debug("auto-coding applied", "codes", len(s.order), "segments", len(applied))
	return applied, nil
}

// Run auto-codes the corpus and wraps the outcome in the shared envelope.
// Frequency, co-occurrence, and coverage include any manual segments the
// caller applied beforehand.
func (s *Session) Run(c *corpus.TextCorpus) (report.AnalysisResult, error) {
	if _, err := s.AutoCodeKeywords(c); err != nil {
		return report.AnalysisResult{}, err
	}
	segments := s.Segments()
	res := &Result{
		Segments:     segments,
		Frequency:    s.CodeFrequency(),
		Cooccurrence: s.CodeCooccurrence(),
	}
	coded := make(map[string]struct{})
	for _, seg := range segments {
		coded[seg.RecordID] = struct{}{}
	}
	coverage := float64(len(coded)) / float64(c.Len())
	if c.Len() < MinRecords {
		res.Warnings = append(res.Warnings, report.WarnInsufficientData)
	}
	return report.AnalysisResult{
		Kind:       report.KindCoding,
		Method:     "keyword_auto_coding",
		Confidence: coverage,
		Warnings:   res.Warnings,
		Summary: fmt.Sprintf(
			"%d segments across %d codes; %.0f%% of records coded",
			len(segments), len(s.order), coverage*100),
		Data: res,
	}, nil
}

// CodeFrequency counts applied segments per code, including zero entries
// for unused codes.
func (s *Session) CodeFrequency() map[string]int {
	freq := make(map[string]int, len(s.order))
	for _, name := range s.order {
		freq[name] = 0
	}
	for _, seg := range s.Segments() {
		freq[seg.Code]++
	}
	return freq
}

// CodeCooccurrence returns the Jaccard overlap of record sets for every
// pair of codes that were both applied somewhere.
func (s *Session) CodeCooccurrence() map[string]map[string]float64 {
	recordSets := make(map[string]map[string]struct{})
	for _, seg := range s.Segments() {
		if recordSets[seg.Code] == nil {
			recordSets[seg.Code] = make(map[string]struct{})
		}
		recordSets[seg.Code][seg.RecordID] = struct{}{}
	}
	out := make(map[string]map[string]float64)
	for i, a := range s.order {
		for _, b := range s.order[i+1:] {
			setA, setB := recordSets[a], recordSets[b]
			if len(setA) == 0 || len(setB) == 0 {
				continue
			}
			j := jaccardSets(setA, setB)
			if out[a] == nil {
				out[a] = make(map[string]float64)
			}
			out[a][b] = j
		}
	}
	return out
}

// InterCoderReliability measures agreement between two coders as the
// Jaccard overlap of their exact applied segments. Identical sets score 1,
// fully disjoint sets score 0, and two empty sets are defined as 1.
func InterCoderReliability(a, b []Segment) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := segmentSet(a)
	setB := segmentSet(b)
	intersection := 0
	for key := range setA {
		if _, ok := setB[key]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func sortSegments(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].RecordID != segments[j].RecordID {
			return segments[i].RecordID < segments[j].RecordID
		}
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].Code < segments[j].Code
	})
}

func segmentSet(segments []Segment) map[Segment]struct{} {
	set := make(map[Segment]struct{}, len(segments))
	for _, seg := range segments {
		set[seg] = struct{}{}
	}
	return set
}

func jaccardSets(a, b map[string]struct{}) float64 {
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func keywordPattern(keyword string) (*regexp.Regexp, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("empty keyword")
	}
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
}
