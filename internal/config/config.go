// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load
const EnvPrefix = "RESUME_PARSER"

// Analyzer names
const (
	AnalyzerRule  = "rule"
	AnalyzerProse = "prose"
)

// Vocabulary sources
const (
	VocabularyEmbedded = "embedded"
	VocabularyFile     = "file"
	VocabularyPostgres = "postgres"
)

// Embedding providers
const (
	EmbeddingLocal  = "local"
	EmbeddingGemini = "gemini"
)

// Config represents the application configuration.
// Values come from (in increasing precedence) defaults, the config file and the environment.
type Config struct {
	Server      ServerConfig     `mapstructure:"server"`
	Analyzer    string           `mapstructure:"analyzer"` // rule or prose
	Vocabulary  VocabularyConfig `mapstructure:"vocabulary"`
	Embedding   EmbeddingConfig  `mapstructure:"embedding"`
	Weights     WeightsConfig    `mapstructure:"weights"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Log         LogConfig        `mapstructure:"log"`
	Concurrency int              `mapstructure:"concurrency"`  // Parallel documents in batch parsing
	DatabaseURL string           `mapstructure:"database_url"` // PostgreSQL connection URL (vocabulary source)
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TempDir         string        `mapstructure:"temp_dir"` // Where uploads are spooled; empty means os.TempDir()
}

// VocabularyConfig selects where the skill and company vocabularies come from
type VocabularyConfig struct {
	Source        string `mapstructure:"source"`
	SkillsPath    string `mapstructure:"skills_path"`
	CompaniesPath string `mapstructure:"companies_path"`
}

// EmbeddingConfig configures the semantic similarity embedder
type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	RedisURL string        `mapstructure:"redis_url"` // Optional embedding cache
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// WeightsConfig holds the overall-score weights
type WeightsConfig struct {
	TFIDF    float64 `mapstructure:"tfidf"`
	Semantic float64 `mapstructure:"semantic"`
	Skill    float64 `mapstructure:"skill"`
}

// RateLimitConfig configures per-client HTTP rate limiting
type RateLimitConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	RequestsPerMinute int      `mapstructure:"requests_per_minute"`
	Burst             int      `mapstructure:"burst"`
	Whitelist         []string `mapstructure:"whitelist"` // Client IPs exempt from limiting
}

// LogConfig configures the logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8000,
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Analyzer: AnalyzerRule,
		Vocabulary: VocabularyConfig{
			Source: VocabularyEmbedded,
		},
		Embedding: EmbeddingConfig{
			Provider: EmbeddingLocal,
			Model:    "text-embedding-004",
			CacheTTL: 24 * time.Hour,
		},
		Weights: WeightsConfig{
			TFIDF:    0.3,
			Semantic: 0.3,
			Skill:    0.4,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 60,
			Burst:             10,
			Whitelist:         []string{},
		},
		Concurrency: 4,
	}
}

// Load reads configuration from the file at path (optional; YAML or JSON) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional variable names shared with other tools
	bindings := map[string][]string{
		"embedding.api_key":   {EnvPrefix + "_EMBEDDING_API_KEY", "GEMINI_API_KEY"},
		"embedding.redis_url": {EnvPrefix + "_EMBEDDING_REDIS_URL", "REDIS_URL"},
		"database_url":        {EnvPrefix + "_DATABASE_URL", "DATABASE_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Analyzer = strings.ToLower(strings.TrimSpace(cfg.Analyzer))
	cfg.Vocabulary.Source = strings.ToLower(strings.TrimSpace(cfg.Vocabulary.Source))
	cfg.Embedding.Provider = strings.ToLower(strings.TrimSpace(cfg.Embedding.Provider))

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.temp_dir", d.Server.TempDir)
	v.SetDefault("analyzer", d.Analyzer)
	v.SetDefault("vocabulary.source", d.Vocabulary.Source)
	v.SetDefault("vocabulary.skills_path", d.Vocabulary.SkillsPath)
	v.SetDefault("vocabulary.companies_path", d.Vocabulary.CompaniesPath)
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", d.Embedding.APIKey)
	v.SetDefault("embedding.redis_url", d.Embedding.RedisURL)
	v.SetDefault("embedding.cache_ttl", d.Embedding.CacheTTL)
	v.SetDefault("weights.tfidf", d.Weights.TFIDF)
	v.SetDefault("weights.semantic", d.Weights.Semantic)
	v.SetDefault("weights.skill", d.Weights.Skill)
	v.SetDefault("rate_limit.enabled", d.RateLimit.Enabled)
	v.SetDefault("rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("rate_limit.whitelist", d.RateLimit.Whitelist)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("database_url", d.DatabaseURL)
}

// Validate checks that the configuration has valid values.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' must be between 0 and 65535"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'server.max_upload_bytes' must be positive"))
	}

	switch c.Analyzer {
	case AnalyzerRule, AnalyzerProse:
	default:
		errs = append(errs, fmt.Errorf("config error: unknown analyzer %q", c.Analyzer))
	}

	switch c.Vocabulary.Source {
	case VocabularyEmbedded:
	case VocabularyFile:
		if c.Vocabulary.SkillsPath == "" && c.Vocabulary.CompaniesPath == "" {
			errs = append(errs, fmt.Errorf("config error: file vocabulary needs 'vocabulary.skills_path' or 'vocabulary.companies_path'"))
		}
	case VocabularyPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("config error: postgres vocabulary needs 'database_url'"))
		}
	default:
		errs = append(errs, fmt.Errorf("config error: unknown vocabulary source %q", c.Vocabulary.Source))
	}

	switch c.Embedding.Provider {
	case EmbeddingLocal:
	case EmbeddingGemini:
		if c.Embedding.APIKey == "" {
			errs = append(errs, fmt.Errorf("config error: gemini embeddings need an API key (GEMINI_API_KEY)"))
		}
	default:
		errs = append(errs, fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider))
	}

	w := c.Weights
	if w.TFIDF < 0 || w.Semantic < 0 || w.Skill < 0 {
		errs = append(errs, fmt.Errorf("config error: score weights must be non-negative"))
	} else if w.TFIDF+w.Semantic+w.Skill == 0 {
		errs = append(errs, fmt.Errorf("config error: at least one score weight must be positive"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("config error: rate limit needs positive 'requests_per_minute' and 'burst'"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("config error: 'concurrency' must be at least 1"))
	}

	return errors.Join(errs...)
}
