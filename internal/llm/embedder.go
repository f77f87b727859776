package llm

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Embedder turns text into a dense vector
type Embedder interface {
	// Embed returns the embedding of text
	Embed(ctx context.Context, text string) ([]float32, error)
	// Model identifies the embedding space; vectors from different models are not comparable
	Model() string
	// Close releases any resources held by the embedder
	Close() error
}

// NewEmbedder creates the embedder selected by config, wrapped in a Redis
// cache when a Redis URL is configured.
func NewEmbedder(ctx context.Context, config *Config, log *zap.Logger) (Embedder, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var base Embedder
	switch config.Provider {
	case ProviderLocal, "":
		base = NewLocalEmbedder(config.Dimensions)
	case ProviderGemini:
		gemini, err := NewGeminiEmbedder(ctx, config.Model, config.APIKey)
		if err != nil {
			return nil, err
		}
		base = gemini
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", config.Provider)
	}

	if config.RedisURL == "" {
		return base, nil
	}
	cache, err := NewRedisCache(config.RedisURL)
	if err != nil {
		_ = base.Close()
		return nil, err
	}
	return NewCachedEmbedder(base, cache, config.CacheTTL, log), nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is zero or the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
