// Package config provides configuration loading for ReelRank.
//
// Configuration hierarchy (later wins):
//  1. Hardcoded defaults (NewConfig)
//  2. Config file (.reelrank.yaml next to the dataset, or explicit path)
//  3. Environment variables (REELRANK_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ReelRank configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Dataset DatasetConfig `yaml:"dataset" json:"dataset"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Index   IndexConfig   `yaml:"index" json:"index"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// DatasetConfig configures the movie dataset source and cache location.
type DatasetConfig struct {
	// Path is the movie dataset CSV path.
	Path string `yaml:"path" json:"path"`
	// DataDir is where the catalog cache and lock files live.
	// Defaults to .reelrank next to the dataset.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// SearchConfig configures retrieval behavior.
type SearchConfig struct {
	// TitleThreshold is the minimum token-sort score (0-100) for a fuzzy
	// title correction to apply. Below it the input passes through.
	TitleThreshold int `yaml:"title_threshold" json:"title_threshold"`

	// EntityThreshold is the minimum score for actor/director/company
	// correction. Stricter than titles: short names collide more easily.
	EntityThreshold int `yaml:"entity_threshold" json:"entity_threshold"`

	// DefaultLimit is the result count used when a caller passes n <= 0.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// MaxLimit caps the result count for any single call.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`

	// CorrectionCacheSize is the LRU size for fuzzy correction results.
	CorrectionCacheSize int `yaml:"correction_cache_size" json:"correction_cache_size"`
}

// IndexConfig configures the term-weighted semantic index.
type IndexConfig struct {
	// MaxFeatures caps the vocabulary size.
	MaxFeatures int `yaml:"max_features" json:"max_features"`

	// MinDocFreq drops terms appearing in fewer documents than this.
	MinDocFreq int `yaml:"min_doc_freq" json:"min_doc_freq"`

	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents (0.0-1.0).
	MaxDocRatio float64 `yaml:"max_doc_ratio" json:"max_doc_ratio"`

	// Precompute controls whether the full item-by-item similarity
	// matrix is built at initialization. Valid only for a static corpus.
	Precompute bool `yaml:"precompute" json:"precompute"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// ConfigFileName is the per-project configuration file name.
const ConfigFileName = ".reelrank.yaml"

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Dataset: DatasetConfig{
			Path:    "dataset_movies_api.csv",
			DataDir: "",
		},
		Search: SearchConfig{
			TitleThreshold:      70,
			EntityThreshold:     75,
			DefaultLimit:        10,
			MaxLimit:            100,
			CorrectionCacheSize: 512,
		},
		Index: IndexConfig{
			MaxFeatures: 5000,
			MinDocFreq:  2,
			MaxDocRatio: 0.8,
			Precompute:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration for the given directory.
// A missing config file is not an error; defaults and env apply.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	path := filepath.Join(dir, ConfigFileName)
	if fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML merges values from a YAML file into the config.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies REELRANK_* environment variables.
// Env vars have the highest priority in the hierarchy.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("REELRANK_DATASET"); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv("REELRANK_DATA_DIR"); v != "" {
		c.Dataset.DataDir = v
	}
	if v := os.Getenv("REELRANK_TITLE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.TitleThreshold = n
		}
	}
	if v := os.Getenv("REELRANK_ENTITY_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Search.EntityThreshold = n
		}
	}
	if v := os.Getenv("REELRANK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Search.TitleThreshold < 0 || c.Search.TitleThreshold > 100 {
		return fmt.Errorf("search.title_threshold must be 0-100, got %d", c.Search.TitleThreshold)
	}
	if c.Search.EntityThreshold < 0 || c.Search.EntityThreshold > 100 {
		return fmt.Errorf("search.entity_threshold must be 0-100, got %d", c.Search.EntityThreshold)
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) must be >= search.default_limit (%d)",
			c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if c.Index.MaxFeatures <= 0 {
		return fmt.Errorf("index.max_features must be positive, got %d", c.Index.MaxFeatures)
	}
	if c.Index.MinDocFreq < 1 {
		return fmt.Errorf("index.min_doc_freq must be >= 1, got %d", c.Index.MinDocFreq)
	}
	if c.Index.MaxDocRatio <= 0 || c.Index.MaxDocRatio > 1 {
		return fmt.Errorf("index.max_doc_ratio must be in (0, 1], got %g", c.Index.MaxDocRatio)
	}
	return nil
}

// EffectiveDataDir returns the data directory, defaulting to a .reelrank
// directory next to the dataset.
func (c *Config) EffectiveDataDir() string {
	if c.Dataset.DataDir != "" {
		return c.Dataset.DataDir
	}
	return filepath.Join(filepath.Dir(c.Dataset.Path), ".reelrank")
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
