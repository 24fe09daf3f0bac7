// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// analysis defaults (themes, seeds, thresholds) and the logging and metrics
// subsystems.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AnalysisConfig holds the default tuning knobs for the analysis pipeline.
// Per-call options override these values.
type AnalysisConfig struct {
	Themes             int                 `yaml:"themes"`
	ClusteringStrategy string              `yaml:"clusteringStrategy"`
	RandomSeed         int64               `yaml:"randomSeed"`
	MaxIterations      int                 `yaml:"maxIterations"`
	NGramSizes         []int               `yaml:"ngramSizes"`
	TopK               int                 `yaml:"topK"`
	CategoryMinOverlap float64             `yaml:"categoryMinOverlap"`
	RespondentKey      string              `yaml:"respondentKey"`
	StopWords          []string            `yaml:"stopWords"`
	CategoryKeywords   map[string][]string `yaml:"categoryKeywords"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics collectors.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with the pipeline's documented defaults.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Themes:             5,
			ClusteringStrategy: "clustering",
			RandomSeed:         42,
			MaxIterations:      100,
			NGramSizes:         []int{2, 3},
			TopK:               10,
			CategoryMinOverlap: 0.1,
			RespondentKey:      "respondent_id",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c *Config) validate() error {
	if c.Analysis.Themes <= 0 {
		return fmt.Errorf("analysis.themes must be positive, got %d", c.Analysis.Themes)
	}
	if c.Analysis.MaxIterations <= 0 {
		return fmt.Errorf("analysis.maxIterations must be positive, got %d", c.Analysis.MaxIterations)
	}
	if c.Analysis.CategoryMinOverlap < 0 || c.Analysis.CategoryMinOverlap > 1 {
		return fmt.Errorf("analysis.categoryMinOverlap must be in [0,1], got %g", c.Analysis.CategoryMinOverlap)
	}
	for _, n := range c.Analysis.NGramSizes {
		if n < 1 {
			return fmt.Errorf("analysis.ngramSizes entries must be >= 1, got %d", n)
		}
	}
	return nil
}

// applyEnvOverrides reads QE_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QE_ANALYSIS_THEMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.Themes = n
		}
	}
	if v := os.Getenv("QE_ANALYSIS_STRATEGY"); v != "" {
		cfg.Analysis.ClusteringStrategy = v
	}
	if v := os.Getenv("QE_ANALYSIS_RANDOM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Analysis.RandomSeed = seed
		}
	}
	if v := os.Getenv("QE_ANALYSIS_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.MaxIterations = n
		}
	}
	if v := os.Getenv("QE_ANALYSIS_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Analysis.TopK = n
		}
	}
	if v := os.Getenv("QE_ANALYSIS_RESPONDENT_KEY"); v != "" {
		cfg.Analysis.RespondentKey = v
	}
	if v := os.Getenv("QE_ANALYSIS_STOP_WORDS"); v != "" {
		cfg.Analysis.StopWords = strings.Split(v, ",")
	}
	if v := os.Getenv("QE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("QE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("QE_METRICS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}
