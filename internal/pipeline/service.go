// Package pipeline provides the high-level orchestration for resume parsing:
// text extraction, entity extraction, skill normalization and scoring.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/ranking"
	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/types"
)

// Pipeline steps reported in progress events
const (
	StepExtractText     = "extract_text"
	StepExtractEntities = "extract_entities"
	StepNormalizeSkills = "normalize_skills"
	StepScore           = "score"
	StepDone            = "done"
	StepFailed          = "failed"
)

// ProgressEvent represents a progress update during parsing
type ProgressEvent struct {
	Step     string `json:"step"`
	Filename string `json:"filename,omitempty"`
	Index    int    `json:"index"`
	Message  string `json:"message"`
}

// ProgressCallback is called when pipeline progress occurs. It may be called
// from several goroutines during batch parsing.
type ProgressCallback func(event ProgressEvent)

// Service runs documents through extraction, normalization and scoring.
// It is safe for concurrent use.
type Service struct {
	extractor  *ingestion.Extractor
	engine     *parsing.Engine
	normalizer *skills.Normalizer
	scorer     *ranking.Scorer
	logger     *zap.Logger
	now        func() time.Time
	closers    []func() error
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger.OrNop(l)
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service from its components. A nil normalizer uses the default alias table.
func NewService(extractor *ingestion.Extractor, engine *parsing.Engine, normalizer *skills.Normalizer, scorer *ranking.Scorer, opts ...Option) *Service {
	if normalizer == nil {
		normalizer = skills.Default()
	}
	s := &Service{
		extractor:  extractor,
		engine:     engine,
		normalizer: normalizer,
		scorer:     scorer,
		logger:     zap.NewNop(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseDocument extracts the text of doc, parses it and, when job is not nil,
// scores the result against job.
func (s *Service) ParseDocument(ctx context.Context, doc *ingestion.Document, job *types.JobDescription) (*types.ParseResult, error) {
	return s.parseDocument(ctx, doc, job, func(string) {})
}

func (s *Service) parseDocument(ctx context.Context, doc *ingestion.Document, job *types.JobDescription, report func(step string)) (*types.ParseResult, error) {
	report(StepExtractText)
	text, meta, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("document text extracted",
		zap.String("filename", meta.Filename),
		zap.String("hash", meta.Hash),
		zap.String("preview", logger.TruncateForLog(text, 80)),
	)
	return s.parseText(ctx, text, job, report)
}

// ParseText parses already extracted resume text
func (s *Service) ParseText(ctx context.Context, text string, job *types.JobDescription) (*types.ParseResult, error) {
	return s.parseText(ctx, text, job, func(string) {})
}

func (s *Service) parseText(ctx context.Context, text string, job *types.JobDescription, report func(step string)) (*types.ParseResult, error) {
	report(StepExtractEntities)
	entities, err := s.engine.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	report(StepNormalizeSkills)
	entities.Skills = s.normalizer.Normalize(entities.Skills)

	result := &types.ParseResult{Data: entities}
	if job != nil {
		report(StepScore)
		score, err := s.score(ctx, entities, job)
		if err != nil {
			return nil, err
		}
		result.Compatibility = score
	}
	result.Timestamp = s.now()
	return result, nil
}

// Match scores already parsed resume data against job. The resume's skills are
// normalized first; resume itself is not modified.
func (s *Service) Match(ctx context.Context, resume *types.ResumeEntities, job *types.JobDescription) (*types.MatchResult, error) {
	normalized := s.normalizedCopy(resume)
	score, err := s.score(ctx, normalized, job)
	if err != nil {
		return nil, err
	}
	return &types.MatchResult{Compatibility: score, Timestamp: s.now()}, nil
}

// Explain is Match with the requirement-level detail behind the skill match
func (s *Service) Explain(ctx context.Context, resume *types.ResumeEntities, job *types.JobDescription) (*ranking.Explanation, error) {
	if s.scorer == nil {
		return nil, fmt.Errorf("scoring is not configured")
	}
	return s.scorer.Explain(ctx, s.normalizedCopy(resume), job)
}

// NormalizeSkills maps skills to their canonical names
func (s *Service) NormalizeSkills(raw []string) []string {
	return s.normalizer.Normalize(raw)
}

// Close releases resources owned by the service (embedder, database pool)
func (s *Service) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func (s *Service) score(ctx context.Context, resume *types.ResumeEntities, job *types.JobDescription) (*types.CompatibilityScore, error) {
	if s.scorer == nil {
		return nil, fmt.Errorf("scoring is not configured")
	}
	return s.scorer.Score(ctx, resume, job)
}

func (s *Service) normalizedCopy(resume *types.ResumeEntities) *types.ResumeEntities {
	if resume == nil {
		return types.NewResumeEntities()
	}
	copied := *resume
	copied.Skills = s.normalizer.Normalize(resume.Skills)
	return &copied
}
