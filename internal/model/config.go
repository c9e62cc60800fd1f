package model

import (
	"runtime"
	"time"
)

// Config holds the runtime configuration for the grading tool.
type Config struct {
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
}

// ConcurrencyConfig controls batch grading parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// CacheConfig controls caching of parsed OCR result files.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// StoreConfig controls the optional SQLite run history.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"` // empty disables persistence
}

// LLMConfig controls the optional feedback summarizer.
type LLMConfig struct {
	Provider          string  `yaml:"provider" json:"provider"` // "openai" or "" (disabled)
	Model             string  `yaml:"model" json:"model"`
	APIKey            string  `yaml:"api_key" json:"-"`
	BaseURL           string  `yaml:"base_url" json:"base_url"`
	Timeout           int     `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens         int     `yaml:"max_tokens" json:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		Store: StoreConfig{},
		LLM: LLMConfig{
			Provider:          "", // disabled by default
			Model:             "gpt-4o-mini",
			Timeout:           30,
			MaxTokens:         800,
			RequestsPerSecond: 1,
			Burst:             1,
		},
	}
}
