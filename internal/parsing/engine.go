// Package parsing extracts structured resume entities from plain resume text.
package parsing

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/jonathan/resume-parser/internal/vocab"
)

// Engine extracts ResumeEntities from text. An Engine holds only read-only
// state and is safe for concurrent use when its Analyzer is.
type Engine struct {
	analyzer nlp.Analyzer
	vocab    *vocab.Vocabulary
	logger   *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.OrNop(l)
	}
}

// NewEngine creates an extraction engine over an analyzer and reference vocabularies
func NewEngine(analyzer nlp.Analyzer, v *vocab.Vocabulary, opts ...Option) *Engine {
	e := &Engine{
		analyzer: analyzer,
		vocab:    v,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every field extractor over text. Missing fields are left empty;
// the only error is an *nlp.AnalysisError from the analyzer.
func (e *Engine) Extract(ctx context.Context, text string) (*types.ResumeEntities, error) {
	start := time.Now()
	doc, err := e.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	entities := types.NewResumeEntities()
	if len(doc.Tokens) == 0 {
		return entities, nil
	}

	entities.Name = extractName(doc)
	entities.Contact = extractContact(doc.Text)
	entities.Education = extractEducation(doc)
	entities.Experience = extractExperience(doc, e.vocab.CompanyMatcher())
	entities.Skills = extractSkills(doc, e.vocab.SkillMatcher())
	entities.Certifications = extractSentences(doc, certificationKeywords)
	entities.Projects = extractSentences(doc, projectKeywords)

	e.logger.Debug("extracted resume entities",
		zap.Int("tokens", len(doc.Tokens)),
		zap.Int("sentences", len(doc.Sentences)),
		zap.Bool("name", entities.Name != nil),
		zap.Int("education", len(entities.Education)),
		zap.Int("experience", len(entities.Experience)),
		zap.Int("skills", len(entities.Skills)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return entities, nil
}

// sortedSet returns the members of set in lexicographic order, never nil
func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
