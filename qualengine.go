// Package qualengine analyzes free-text research responses (interview
// transcripts, open-ended survey answers) entirely offline. It exposes the
// corpus construction boundary, a single report-generation entry point, and
// standalone constructors for each analyzer. All computation is in-memory;
// the package performs no network or disk access.
package qualengine

import (
	"context"

	"github.com/fieldstudy/qualengine/internal/coding"
	"github.com/fieldstudy/qualengine/internal/content"
	"github.com/fieldstudy/qualengine/internal/corpus"
	"github.com/fieldstudy/qualengine/internal/orchestrator"
	"github.com/fieldstudy/qualengine/internal/report"
	"github.com/fieldstudy/qualengine/internal/sentiment"
	"github.com/fieldstudy/qualengine/internal/stats"
	"github.com/fieldstudy/qualengine/internal/survey"
	"github.com/fieldstudy/qualengine/internal/thematic"
	"github.com/fieldstudy/qualengine/pkg/config"
	"github.com/fieldstudy/qualengine/pkg/logger"
	"github.com/fieldstudy/qualengine/pkg/metrics"
)

// Corpus model.
type (
	Entry         = corpus.Entry
	Record        = corpus.Record
	TextCorpus    = corpus.TextCorpus
	SurveyDataset = corpus.SurveyDataset
)

// NewCorpus validates entries and builds a read-only corpus. Entries with
// empty or whitespace-only text are rejected, not silently filtered.
func NewCorpus(entries []Entry) (*TextCorpus, error) {
	return corpus.New(entries)
}

// CorpusFromTexts builds a corpus from bare strings.
func CorpusFromTexts(texts ...string) (*TextCorpus, error) {
	return corpus.FromTexts(texts...)
}

// NewSurveyDataset returns an empty multi-question dataset.
func NewSurveyDataset() *SurveyDataset {
	return corpus.NewSurveyDataset()
}

// Report structures.
type (
	Report         = report.Report
	AnalysisResult = report.AnalysisResult
	Kind           = report.Kind
	Options        = orchestrator.Options
	KeywordCode    = orchestrator.Code
	Config         = config.Config
	Metrics        = metrics.Metrics
)

// Analyzer kinds accepted in Options.AnalysisType alongside "auto".
const (
	AnalysisAuto = orchestrator.AnalysisAuto

	KindSentiment  = report.KindSentiment
	KindThematic   = report.KindThematic
	KindContent    = report.KindContent
	KindCoding     = report.KindCoding
	KindSurvey     = report.KindSurvey
	KindStatistics = report.KindStatistics
)

// Clustering strategies accepted in Options.Strategy.
const (
	StrategyClustering = thematic.StrategyClustering
	StrategyTopicModel = thematic.StrategyTopicModel
)

// Engine is the stateless analysis orchestrator.
type Engine = orchestrator.Orchestrator

// NewEngine builds an Engine. cfg nil uses the documented defaults; m nil
// disables metrics instrumentation.
func NewEngine(cfg *Config, m *Metrics) *Engine {
	return orchestrator.New(cfg, m)
}

// LoadConfig reads a YAML config file (path may be empty) and applies QE_*
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// SetupLogging configures the process-wide structured logger from cfg.
func SetupLogging(cfg *Config) {
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
}

// NewMetrics creates the Prometheus collectors for engine instrumentation.
// The returned Metrics serves its own scrape handler via Handler().
func NewMetrics() *Metrics {
	return metrics.New()
}

// GenerateReport profiles the corpus, runs the selected analyzers, and
// merges their results, using a default-configured engine.
func GenerateReport(ctx context.Context, c *TextCorpus, opts Options) (*Report, error) {
	return orchestrator.New(nil, nil).Run(ctx, c, opts)
}

// GenerateSurveyReport is the multi-question counterpart of GenerateReport.
func GenerateSurveyReport(ctx context.Context, d *SurveyDataset, opts Options) (*Report, error) {
	return orchestrator.New(nil, nil).RunSurvey(ctx, d, opts)
}

// Standalone analyzer surfaces for direct use. Unlike orchestrated runs,
// direct calls enforce no minimum corpus sizes.
type (
	SentimentAnalyzer  = sentiment.Analyzer
	ContentAnalyzer    = content.Analyzer
	ContentConfig      = content.Config
	ThematicAnalyzer   = thematic.Analyzer
	ThematicConfig     = thematic.Config
	SurveyAnalyzer     = survey.Analyzer
	SurveyConfig       = survey.Config
	StatisticsAnalyzer = stats.Analyzer
	CodingSession      = coding.Session
)

// NewSentimentAnalyzer returns the lexicon-based sentiment analyzer.
func NewSentimentAnalyzer() *SentimentAnalyzer { return sentiment.New() }

// NewContentAnalyzer returns the structural feature analyzer.
func NewContentAnalyzer(cfg ContentConfig) *ContentAnalyzer { return content.New(cfg) }

// NewThematicAnalyzer returns the theme extraction analyzer.
func NewThematicAnalyzer(cfg ThematicConfig) (*ThematicAnalyzer, error) { return thematic.New(cfg) }

// NewSurveyAnalyzer returns the multi-question composition analyzer.
func NewSurveyAnalyzer(cfg SurveyConfig) *SurveyAnalyzer { return survey.New(cfg) }

// NewStatisticsAnalyzer returns the descriptive statistics analyzer.
func NewStatisticsAnalyzer() *StatisticsAnalyzer { return stats.New() }

// NewCodingSession returns an empty caller-owned coding session.
func NewCodingSession() *CodingSession { return coding.NewSession() }
