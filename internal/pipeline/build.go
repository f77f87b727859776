package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/ranking"
	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/vocab"
)

// NewFromConfig builds a fully wired service from cfg. The caller must Close it.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {
	log = logger.OrNop(log)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	analyzer, err := NewAnalyzer(cfg.Analyzer)
	if err != nil {
		return nil, err
	}

	vocabulary, err := LoadVocabulary(ctx, cfg)
	if err != nil {
		return nil, err
	}

	embedder, err := llm.NewEmbedder(ctx, EmbeddingConfig(cfg), log.Named("embeddings"))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	normalizer := skills.Default()
	scorer, err := ranking.NewScorer(embedder,
		ranking.WithWeights(ranking.Weights{
			TFIDF:    cfg.Weights.TFIDF,
			Semantic: cfg.Weights.Semantic,
			Skill:    cfg.Weights.Skill,
		}),
		ranking.WithNormalizer(normalizer),
		ranking.WithLogger(log.Named("ranking")),
	)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	engine := parsing.NewEngine(analyzer, vocabulary, parsing.WithLogger(log.Named("parsing")))
	s := NewService(ingestion.NewExtractor(log.Named("ingestion")), engine, normalizer, scorer, WithLogger(log))
	s.closers = append(s.closers, embedder.Close)

	log.Info("pipeline ready",
		zap.String("analyzer", cfg.Analyzer),
		zap.String("vocabulary", cfg.Vocabulary.Source),
		zap.Int("skills", len(vocabulary.Skills())),
		zap.Int("companies", len(vocabulary.Companies())),
		zap.String("embedding_model", embedder.Model()),
	)
	return s, nil
}

// NewAnalyzer returns the linguistic analyzer with the given name
func NewAnalyzer(name string) (nlp.Analyzer, error) {
	switch name {
	case config.AnalyzerRule, "":
		return nlp.NewRuleAnalyzer(), nil
	case config.AnalyzerProse:
		return nlp.NewProseAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer %q", name)
	}
}

// LoadVocabulary loads the skill and company vocabularies from the configured source
func LoadVocabulary(ctx context.Context, cfg *config.Config) (*vocab.Vocabulary, error) {
	switch cfg.Vocabulary.Source {
	case config.VocabularyEmbedded, "":
		return vocab.Default()
	case config.VocabularyFile:
		return vocab.LoadFile(cfg.Vocabulary.SkillsPath, cfg.Vocabulary.CompaniesPath)
	case config.VocabularyPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, &vocab.LoadError{Source: "postgres", Message: "failed to connect", Cause: err}
		}
		defer database.Close()
		return vocab.LoadFromDB(ctx, database)
	default:
		return nil, fmt.Errorf("unknown vocabulary source %q", cfg.Vocabulary.Source)
	}
}

// EmbeddingConfig maps the application configuration to the embedder configuration
func EmbeddingConfig(cfg *config.Config) *llm.Config {
	ec := llm.DefaultConfig()
	ec.Provider = llm.Provider(cfg.Embedding.Provider)
	if cfg.Embedding.Model != "" {
		ec.Model = cfg.Embedding.Model
	}
	ec.APIKey = cfg.Embedding.APIKey
	ec.RedisURL = cfg.Embedding.RedisURL
	if cfg.Embedding.CacheTTL > 0 {
		ec.CacheTTL = cfg.Embedding.CacheTTL
	}
	return ec
}
