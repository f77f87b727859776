// Package ranking scores the compatibility of a parsed resume with a job description.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/skills"
	"github.com/jonathan/resume-parser/internal/types"
)

// Scorer computes CompatibilityScores. It is safe for concurrent use when its Embedder is.
type Scorer struct {
	embedder   llm.Embedder
	normalizer *skills.Normalizer
	weights    Weights
	logger     *zap.Logger
}

// Option configures a Scorer
type Option func(*Scorer)

// WithWeights sets the sub-score weights; they are normalized to sum to 1
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		s.weights = w
	}
}

// WithNormalizer sets the skill normalizer used for skill matching
func WithNormalizer(n *skills.Normalizer) Option {
	return func(s *Scorer) {
		s.normalizer = n
	}
}

// WithLogger sets the scorer logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) {
		s.logger = logger.OrNop(l)
	}
}

// NewScorer creates a scorer over an embedder
func NewScorer(embedder llm.Embedder, opts ...Option) (*Scorer, error) {
	s := &Scorer{
		embedder:   embedder,
		normalizer: skills.Default(),
		weights:    DefaultWeights(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	weights, err := s.weights.Normalize()
	if err != nil {
		return nil, err
	}
	s.weights = weights
	return s, nil
}

// Weights returns the normalized weights in use
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Explanation is a score with the requirement-level detail behind its skill match
type Explanation struct {
	Score               types.CompatibilityScore `json:"score"`
	MatchedRequirements []string                 `json:"matched_requirements"`
	MissingRequirements []string                 `json:"missing_requirements"`
	Notes               string                   `json:"notes"`
}

// Score computes the compatibility of resume with job. The job is validated
// first; an empty resume scores zero.
func (s *Scorer) Score(ctx context.Context, resume *types.ResumeEntities, job *types.JobDescription) (*types.CompatibilityScore, error) {
	explanation, err := s.Explain(ctx, resume, job)
	if err != nil {
		return nil, err
	}
	return &explanation.Score, nil
}

// Explain computes the score together with matched and missing requirements
func (s *Scorer) Explain(ctx context.Context, resume *types.ResumeEntities, job *types.JobDescription) (*Explanation, error) {
	if err := validateJob(job); err != nil {
		return nil, err
	}

	requirements := s.normalizer.Normalize(job.Requirements)
	if resume.IsEmpty() {
		return &Explanation{
			MatchedRequirements: []string{},
			MissingRequirements: requirements,
			Notes:               "Resume has no extracted content",
		}, nil
	}

	tfidf := tfidfSimilarity(resumeKeywordText(resume), jobKeywordText(job))

	semantic, err := s.semanticSimilarity(ctx, resumeFullText(resume), jobFullText(job))
	if err != nil {
		return nil, err
	}

	skillMatch, matched, missing := s.skillMatch(resume.Skills, requirements)

	w := s.weights
	overall := clamp(w.TFIDF*tfidf + w.Semantic*semantic + w.Skill*skillMatch)

	s.logger.Debug("scored resume",
		zap.Float64("overall", overall),
		zap.Float64("tfidf", tfidf),
		zap.Float64("semantic", semantic),
		zap.Float64("skill_match", skillMatch),
		zap.String("embedding_model", s.embedder.Model()),
	)

	return &Explanation{
		Score: types.CompatibilityScore{
			OverallScore:       overall,
			TFIDFSimilarity:    tfidf,
			SemanticSimilarity: semantic,
			SkillMatch:         skillMatch,
		},
		MatchedRequirements: matched,
		MissingRequirements: missing,
		Notes:               generateNotes(tfidf, semantic, skillMatch, matched),
	}, nil
}

// semanticSimilarity embeds both texts concurrently and returns their cosine clamped to [0, 1]
func (s *Scorer) semanticSimilarity(ctx context.Context, resumeText, jobText string) (float64, error) {
	var resumeVec, jobVec []float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resumeVec, err = s.embedder.Embed(gctx, resumeText)
		return err
	})
	g.Go(func() error {
		var err error
		jobVec, err = s.embedder.Embed(gctx, jobText)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to embed texts: %w", err)
	}
	return clamp(llm.CosineSimilarity(resumeVec, jobVec)), nil
}

// skillMatch returns the fraction of normalized requirements present in the
// normalized resume skills. No requirements scores 0.
func (s *Scorer) skillMatch(resumeSkills, requirements []string) (float64, []string, []string) {
	have := make(map[string]bool, len(resumeSkills))
	for _, skill := range s.normalizer.Normalize(resumeSkills) {
		have[strings.ToLower(skill)] = true
	}

	matched, missing := []string{}, []string{}
	for _, req := range requirements {
		if have[strings.ToLower(req)] {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	if len(requirements) == 0 {
		return 0, matched, missing
	}
	return float64(len(matched)) / float64(len(requirements)), matched, missing
}

func validateJob(job *types.JobDescription) error {
	if job == nil {
		return &ValidationError{Message: "job description is required"}
	}
	err := job.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{
			Field:   jsonFieldName(fe.Field()),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			Cause:   err,
		}
	}
	return &ValidationError{Message: err.Error(), Cause: err}
}

var jobFieldNames = map[string]string{
	"Title":                   "title",
	"Description":             "description",
	"Requirements":            "requirements",
	"PreferredQualifications": "preferred_qualifications",
}

func jsonFieldName(field string) string {
	if name, ok := jobFieldNames[field]; ok {
		return name
	}
	return field
}
