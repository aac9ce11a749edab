package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 70, cfg.Search.TitleThreshold)
	assert.Equal(t, 75, cfg.Search.EntityThreshold)
	assert.Equal(t, 5000, cfg.Index.MaxFeatures)
	assert.Equal(t, 2, cfg.Index.MinDocFreq)
	assert.InDelta(t, 0.8, cfg.Index.MaxDocRatio, 1e-9)
	assert.True(t, cfg.Index.Precompute)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Search, cfg.Search)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("search:\n  title_threshold: 80\n  entity_threshold: 90\n  default_limit: 5\n  max_limit: 50\n  correction_cache_size: 64\nindex:\n  max_features: 1000\n  min_doc_freq: 1\n  max_doc_ratio: 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Search.TitleThreshold)
	assert.Equal(t, 90, cfg.Search.EntityThreshold)
	assert.Equal(t, 1000, cfg.Index.MaxFeatures)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("REELRANK_TITLE_THRESHOLD", "65")
	t.Setenv("REELRANK_DATASET", "/tmp/movies.csv")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 65, cfg.Search.TitleThreshold)
	assert.Equal(t, "/tmp/movies.csv", cfg.Dataset.Path)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold above 100", func(c *Config) { c.Search.TitleThreshold = 101 }},
		{"negative threshold", func(c *Config) { c.Search.EntityThreshold = -1 }},
		{"zero default limit", func(c *Config) { c.Search.DefaultLimit = 0 }},
		{"max below default", func(c *Config) { c.Search.MaxLimit = 1 }},
		{"zero max features", func(c *Config) { c.Index.MaxFeatures = 0 }},
		{"zero min doc freq", func(c *Config) { c.Index.MinDocFreq = 0 }},
		{"doc ratio above 1", func(c *Config) { c.Index.MaxDocRatio = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestEffectiveDataDir(t *testing.T) {
	cfg := NewConfig()
	cfg.Dataset.Path = "/data/movies.csv"
	assert.Equal(t, filepath.Join("/data", ".reelrank"), cfg.EffectiveDataDir())

	cfg.Dataset.DataDir = "/var/lib/reelrank"
	assert.Equal(t, "/var/lib/reelrank", cfg.EffectiveDataDir())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := NewConfig()
	cfg.Search.TitleThreshold = 72
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 72, loaded.Search.TitleThreshold)
}
