package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Analysis.Themes)
	assert.Equal(t, "clustering", cfg.Analysis.ClusteringStrategy)
	assert.Equal(t, int64(42), cfg.Analysis.RandomSeed)
	assert.Equal(t, 100, cfg.Analysis.MaxIterations)
	assert.Equal(t, []int{2, 3}, cfg.Analysis.NGramSizes)
	assert.Equal(t, "respondent_id", cfg.Analysis.RespondentKey)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoadWithoutPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis.Themes, cfg.Analysis.Themes)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
analysis:
  themes: 8
  clusteringStrategy: topic_model
  randomSeed: 7
logging:
  level: debug
  format: text
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analysis.Themes)
	assert.Equal(t, "topic_model", cfg.Analysis.ClusteringStrategy)
	assert.Equal(t, int64(7), cfg.Analysis.RandomSeed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep their defaults
	assert.Equal(t, 100, cfg.Analysis.MaxIterations)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QE_ANALYSIS_THEMES", "3")
	t.Setenv("QE_ANALYSIS_RANDOM_SEED", "99")
	t.Setenv("QE_ANALYSIS_STOP_WORDS", "um,uh,like")
	t.Setenv("QE_LOGGING_LEVEL", "warn")
	t.Setenv("QE_METRICS_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Analysis.Themes)
	assert.Equal(t, int64(99), cfg.Analysis.RandomSeed)
	assert.Equal(t, []string{"um", "uh", "like"}, cfg.Analysis.StopWords)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  themes: -1\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
