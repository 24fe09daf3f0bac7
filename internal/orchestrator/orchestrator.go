// Package orchestrator is the pipeline entry point: it profiles a corpus or
// survey dataset, selects applicable analyzers, runs them independently,
// and merges their outputs into one immutable report. Analyzers never read
// each other's output, so the selected set runs in parallel; statistics
// runs last because it summarises the other results.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fieldstudy/qualengine/internal/coding"
	"github.com/fieldstudy/qualengine/internal/content"
	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/sentiment"
	"github.com/fieldstudy/qualengine/internal/stats"
	"github.com/fieldstudy/qualengine/internal/survey"
	"github.com/fieldstudy/qualengine/internal/thematic"
	"github.com/fieldstudy/qualengine/pkg/config"
	"github.com/fieldstudy/qualengine/pkg/errors"
	"github.com/fieldstudy/qualengine/pkg/logger"
	"github.com/fieldstudy/qualengine/pkg/metrics"
)

// AnalysisAuto selects analyzers from the dataset profile.
const AnalysisAuto = "auto"

// Options is the per-call configuration surface. Zero values fall back to
// the loaded config defaults.
type Options struct {
	// AnalysisType is "auto" or one of the six analyzer kinds.
	AnalysisType string
	NThemes      int
	Strategy     thematic.Strategy
	RandomSeed   int64
	// StopWords replaces the built-in stop-word set when non-empty.
	StopWords []string
	// CategoryKeywords enables content categorization.
	CategoryKeywords map[string][]string
	// KeywordCodes enables the coding analyzer: code name to trigger
	// keywords.
	KeywordCodes map[string]Code
	// RespondentKey is the metadata key linking survey answers to
	// respondents.
	RespondentKey string
}

// Code is a keyword-code definition passed through Options.
type Code struct {
	Description string
	Keywords    []string
}

// Orchestrator holds no state across calls; every Run is independent.
type Orchestrator struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New builds an Orchestrator. m may be nil to disable instrumentation.
func New(cfg *config.Config, m *metrics.Metrics) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Orchestrator{
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("orchestrator"),
	}
}

// runner executes one analyzer over a prepared corpus.
type runner func() (report.AnalysisResult, error)

// statsRunner executes the statistics analyzer over the corpus plus the
// other analyzers' already-collected results.
type statsRunner func(prior map[report.Kind]report.AnalysisResult) (report.AnalysisResult, error)

// Run profiles the corpus, selects analyzers per opts, executes them, and
// merges the results. In auto mode failures of individual analyzers become
// failed-report entries; an explicitly requested analyzer's failure
// propagates.
func (o *Orchestrator) Run(ctx context.Context, c *corpus.TextCorpus, opts Options) (*report.Report, error) {
	if c.Len() == 0 {
		return nil, errors.ErrEmptyCorpus
	}
	opts = o.withDefaults(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	ctx = logger.WithRunID(ctx, fmt.Sprintf("run-%d", time.Now().UnixNano()))
	log := logger.FromContext(ctx).With("component", "orchestrator")

	profile := Detect(c, len(opts.KeywordCodes) > 0)
	if o.metrics != nil {
		o.metrics.CorpusRecords.Observe(float64(c.Len()))
	}

	runners, statsRun, err := o.buildRunners(c, opts)
	if err != nil {
		return nil, err
	}

	var kinds []report.Kind
	if opts.AnalysisType == AnalysisAuto {
		for _, rec := range profile.Recommendations {
			kinds = append(kinds, rec.Kind)
		}
	} else {
		kind := report.Kind(opts.AnalysisType)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownAnalyzer, opts.AnalysisType)
		}
		if kind == report.KindSurvey {
			return nil, errors.NewValidation("analysis_type",
				"survey analysis requires a survey dataset, not a flat corpus")
		}
		if min, ok := minRecords[kind]; ok && c.Len() < min {
			return nil, fmt.Errorf("%w: %s requires %d records, corpus has %d",
				errors.ErrBelowMinimum, kind, min, c.Len())
		}
		if kind == report.KindCoding && len(opts.KeywordCodes) == 0 {
			return nil, errors.NewValidation("keyword_codes",
				"coding analysis requires a keyword code scheme")
		}
		kinds = []report.Kind{kind}
	}

	rep := report.NewReport(string(profile.Profile))
	for _, rec := range profile.Recommendations {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("%s: %s", rec.Kind, rec.Rationale))
	}

	auto := opts.AnalysisType == AnalysisAuto
	if err := o.execute(ctx, rep, kinds, runners, statsRun, auto); err != nil {
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.ReportsTotal.WithLabelValues(string(profile.Profile)).Inc()
	}
	log.Info("report generated",
		"profile", string(profile.Profile),
		"records", c.Len(),
		"analyzers", len(rep.Order),
		"failed", len(rep.Failed),
	)
	return rep, nil
}

// RunSurvey is the dataset counterpart of Run: the survey analyzer runs over
// the question structure while corpus-level analyzers run over the
// flattened responses.
func (o *Orchestrator) RunSurvey(ctx context.Context, d *corpus.SurveyDataset, opts Options) (*report.Report, error) {
	if d == nil || d.Len() == 0 {
		return nil, errors.NewValidation("dataset", "survey dataset has no questions")
	}
	opts = o.withDefaults(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	ctx = logger.WithRunID(ctx, fmt.Sprintf("run-%d", time.Now().UnixNano()))
	profile := DetectSurvey(d)

	surveyAnalyzer := survey.New(survey.Config{
		Content: content.Config{
			StopWords:        opts.StopWords,
			CategoryKeywords: opts.CategoryKeywords,
			NGramSizes:       o.cfg.Analysis.NGramSizes,
			TopK:             o.cfg.Analysis.TopK,
			MinOverlap:       o.cfg.Analysis.CategoryMinOverlap,
		},
		RespondentKey: opts.RespondentKey,
	})

	if opts.AnalysisType == string(report.KindSurvey) {
		res, err := o.instrumented(report.KindSurvey, func() (report.AnalysisResult, error) {
			return surveyAnalyzer.Run(d)
		})
		if err != nil {
			return nil, err
		}
		rep := report.NewReport(string(profile.Profile))
		rep.Add(res)
		if o.metrics != nil {
			o.metrics.CorpusRecords.Observe(float64(d.TotalResponses()))
			o.metrics.ReportsTotal.WithLabelValues(string(profile.Profile)).Inc()
		}
		return rep, nil
	}

	flat, err := d.Flatten()
	if err != nil {
		return nil, fmt.Errorf("flattening survey dataset: %w", err)
	}
	if opts.AnalysisType != AnalysisAuto {
		// a single non-survey method over a dataset runs on the
		// flattened corpus
		return o.Run(ctx, flat, opts)
	}

	flatProfile := Detect(flat, len(opts.KeywordCodes) > 0)
	if o.metrics != nil {
		o.metrics.CorpusRecords.Observe(float64(flat.Len()))
	}
	runners, statsRun, err := o.buildRunners(flat, opts)
	if err != nil {
		return nil, err
	}
	runners[report.KindSurvey] = func() (report.AnalysisResult, error) {
		return surveyAnalyzer.Run(d)
	}

	kinds := []report.Kind{report.KindSurvey}
	for _, rec := range flatProfile.Recommendations {
		kinds = append(kinds, rec.Kind)
	}

	rep := report.NewReport(string(profile.Profile))
	for _, rec := range profile.Recommendations {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("%s: %s", rec.Kind, rec.Rationale))
	}
	for _, rec := range flatProfile.Recommendations {
		rep.Recommendations = append(rep.Recommendations,
			fmt.Sprintf("%s: %s", rec.Kind, rec.Rationale))
	}
	if err := o.execute(ctx, rep, kinds, runners, statsRun, true); err != nil {
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.ReportsTotal.WithLabelValues(string(profile.Profile)).Inc()
	}
	return rep, nil
}

// execute runs every selected analyzer except statistics in parallel, then
// statistics last over the collected results. Results are merged in the
// fixed report order so output is deterministic regardless of scheduling.
func (o *Orchestrator) execute(
	ctx context.Context,
	rep *report.Report,
	kinds []report.Kind,
	runners map[report.Kind]runner,
	statsRun statsRunner,
	auto bool,
) error {
	selected := make(map[report.Kind]bool, len(kinds))
	for _, k := range kinds {
		selected[k] = true
	}

	results := make(map[report.Kind]report.AnalysisResult, len(kinds))
	failures := make(map[report.Kind]error)

	type outcome struct {
		kind report.Kind
		res  report.AnalysisResult
		err  error
	}
	outcomes := make(chan outcome, len(kinds))

	g, _ := errgroup.WithContext(ctx)
	for _, kind := range kinds {
		if kind == report.KindStatistics {
			continue
		}
		run, ok := runners[kind]
		if !ok {
			continue
		}
		kind := kind
		g.Go(func() error {
			res, err := o.instrumented(kind, run)
			outcomes <- outcome{kind: kind, res: res, err: err}
			return nil
		})
	}
	_ = g.Wait()
	close(outcomes)
	for out := range outcomes {
		if out.err != nil {
			failures[out.kind] = out.err
			continue
		}
		results[out.kind] = out.res
	}

	if !auto {
		for _, err := range failures {
			return err
		}
	}

	// statistics summarises whatever the other analyzers produced
	if selected[report.KindStatistics] && statsRun != nil {
		res, err := o.instrumented(report.KindStatistics, func() (report.AnalysisResult, error) {
			return statsRun(results)
		})
		if err != nil {
			if !auto {
				return err
			}
			failures[report.KindStatistics] = err
		} else {
			results[report.KindStatistics] = res
		}
	}

	for _, kind := range report.Kinds() {
		if !selected[kind] {
			continue
		}
		if res, ok := results[kind]; ok {
			rep.Add(res)
			continue
		}
		if err, ok := failures[kind]; ok {
			rep.AddFailure(kind, err)
		}
	}
	return nil
}

// buildRunners assembles the closed dispatch table for corpus-level
// analyzers, evaluated once per call.
func (o *Orchestrator) buildRunners(c *corpus.TextCorpus, opts Options) (map[report.Kind]runner, statsRunner, error) {
	thematicAnalyzer, err := thematic.New(thematic.Config{
		NThemes:       opts.NThemes,
		Strategy:      opts.Strategy,
		Seed:          opts.RandomSeed,
		MaxIterations: o.cfg.Analysis.MaxIterations,
		StopWords:     opts.StopWords,
	})
	if err != nil {
		return nil, nil, err
	}
	contentAnalyzer := content.New(content.Config{
		StopWords:        opts.StopWords,
		NGramSizes:       o.cfg.Analysis.NGramSizes,
		TopK:             o.cfg.Analysis.TopK,
		CategoryKeywords: opts.CategoryKeywords,
		MinOverlap:       o.cfg.Analysis.CategoryMinOverlap,
	})
	sentimentAnalyzer := sentiment.New()
	statsAnalyzer := stats.New()

	runners := map[report.Kind]runner{
		report.KindSentiment: func() (report.AnalysisResult, error) {
			return sentimentAnalyzer.Run(c)
		},
		report.KindThematic: func() (report.AnalysisResult, error) {
			return thematicAnalyzer.Run(c)
		},
		report.KindContent: func() (report.AnalysisResult, error) {
			return contentAnalyzer.Run(c)
		},
	}
	statsRun := func(prior map[report.Kind]report.AnalysisResult) (report.AnalysisResult, error) {
		return statsAnalyzer.Run(c, prior)
	}

	if len(opts.KeywordCodes) > 0 {
		session := coding.NewSession()
		names := make([]string, 0, len(opts.KeywordCodes))
		for name := range opts.KeywordCodes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			code := opts.KeywordCodes[name]
			if err := session.CreateCode(name, code.Description, code.Keywords); err != nil {
				return nil, nil, err
			}
		}
		runners[report.KindCoding] = func() (report.AnalysisResult, error) {
			return session.Run(c)
		}
	}
	return runners, statsRun, nil
}

// instrumented wraps one analyzer run with panic recovery, timing, and
// metrics. A panic becomes an ErrInternal so one bad analyzer cannot abort
// an auto run.
func (o *Orchestrator) instrumented(kind report.Kind, run runner) (res report.AnalysisResult, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s analyzer panicked: %v", errors.ErrInternal, kind, r)
		}
		o.observe(kind, res, err, time.Since(start))
	}()
	res, err = run()
	return res, err
}

func (o *Orchestrator) observe(kind report.Kind, res report.AnalysisResult, err error, elapsed time.Duration) {
	if o.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case err != nil:
		status = "failed"
	case res.Degraded():
		status = "degraded"
	}
	o.metrics.AnalyzerRunsTotal.WithLabelValues(string(kind), status).Inc()
	o.metrics.AnalyzerDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	for _, w := range res.Warnings {
		o.metrics.AnalyzerWarnings.WithLabelValues(w).Inc()
	}
}

func (o *Orchestrator) withDefaults(opts Options) Options {
	if opts.AnalysisType == "" {
		opts.AnalysisType = AnalysisAuto
	}
	if opts.NThemes == 0 {
		opts.NThemes = o.cfg.Analysis.Themes
	}
	if opts.Strategy == "" {
		opts.Strategy = thematic.Strategy(o.cfg.Analysis.ClusteringStrategy)
	}
	if opts.RandomSeed == 0 {
		opts.RandomSeed = o.cfg.Analysis.RandomSeed
	}
	if len(opts.StopWords) == 0 {
		opts.StopWords = o.cfg.Analysis.StopWords
	}
	if opts.CategoryKeywords == nil {
		opts.CategoryKeywords = o.cfg.Analysis.CategoryKeywords
	}
	if opts.RespondentKey == "" {
		opts.RespondentKey = o.cfg.Analysis.RespondentKey
	}
	return opts
}

func validateOptions(opts Options) error {
	if opts.NThemes <= 0 {
		return fmt.Errorf("%w: n_themes must be positive, got %d",
			errors.ErrInvalidOption, opts.NThemes)
	}
	switch opts.Strategy {
	case thematic.StrategyClustering, thematic.StrategyTopicModel:
	default:
		return fmt.Errorf("%w: unknown clustering strategy %q",
			errors.ErrInvalidOption, opts.Strategy)
	}
	if opts.AnalysisType != AnalysisAuto && !report.Kind(opts.AnalysisType).Valid() {
		return fmt.Errorf("%w: %q", errors.ErrUnknownAnalyzer, opts.AnalysisType)
	}
	return nil
}
