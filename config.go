package rag

import (
	"fmt"
	"time"
)

// DefaultBaseURL is the address of a locally running backend.
const DefaultBaseURL = "http://127.0.0.1:9000/api"

// Config holds client settings loaded from file, environment, and flags.
type Config struct {
	BaseURL        string        `toml:"base_url"`
	TokenFile      string        `toml:"token_file"` // empty = ~/.rag/token.json
	TopK           int           `toml:"top_k"`
	BM25Weight     float64       `toml:"bm25_weight"`
	IncludeContent bool          `toml:"include_content"`
	LogLevel       string        `toml:"log_level"`
	Timeout        time.Duration `toml:"timeout"` // 0 = no client-side timeout
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		TopK:           DefaultTopK,
		BM25Weight:     DefaultBM25Weight,
		IncludeContent: true,
		LogLevel:       "warn",
	}
}

// AskDefaults returns an AskRequest pre-filled with the configured
// retrieval parameters.
func (c Config) AskDefaults(question string) AskRequest {
	return AskRequest{
		Question:       question,
		TopK:           c.TopK,
		BM25Weight:     c.BM25Weight,
		IncludeContent: c.IncludeContent,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty: %w", ErrValidation)
	}
	if c.TopK < 0 {
		return fmt.Errorf("top_k must be non-negative, got %d: %w", c.TopK, ErrValidation)
	}
	if c.BM25Weight < 0 || c.BM25Weight > 1 {
		return fmt.Errorf("bm25_weight must be in [0, 1], got %g: %w", c.BM25Weight, ErrValidation)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %s: %w", c.Timeout, ErrValidation)
	}
	return nil
}
