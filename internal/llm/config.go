// Package llm provides text embedders used for semantic similarity: a local
// hashing embedder, a Gemini embedding client and a Redis-backed cache.
package llm

import "time"

// Provider represents an embedding provider
type Provider string

// Provider constants define supported embedding providers
const (
	// ProviderLocal is the offline feature-hashing embedder
	ProviderLocal Provider = "local"
	// ProviderGemini is the Google Gemini embedding API
	ProviderGemini Provider = "gemini"
)

// Config holds the embedding configuration
type Config struct {
	Provider   Provider
	Model      string // remote model name, ignored by the local provider
	APIKey     string
	Dimensions int // local embedder dimensions
	RedisURL   string
	CacheTTL   time.Duration
}

// DefaultConfig returns the default configuration (local embeddings, no cache)
func DefaultConfig() *Config {
	return &Config{
		Provider:   ProviderLocal,
		Model:      DefaultGeminiModel,
		Dimensions: DefaultDimensions,
		CacheTTL:   24 * time.Hour,
	}
}

// WithProvider returns a copy of the configuration using another provider
func (c *Config) WithProvider(p Provider) *Config {
	copied := *c
	copied.Provider = p
	return &copied
}
