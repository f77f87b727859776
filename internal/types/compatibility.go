package types

import "time"

// CompatibilityScore is the multi-factor similarity between a resume and a job description.
// All values lie in [0, 1].
type CompatibilityScore struct {
	OverallScore       float64 `json:"overall_score"`
	TFIDFSimilarity    float64 `json:"tfidf_similarity"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	SkillMatch         float64 `json:"skill_match"`
}

// ParseResult is the outcome of parsing one resume, optionally scored against a job
type ParseResult struct {
	Data          *ResumeEntities     `json:"data"`
	Compatibility *CompatibilityScore `json:"compatibility"`
	Timestamp     time.Time           `json:"timestamp"`
}

// MatchResult is the outcome of scoring already-parsed resume data against a job
type MatchResult struct {
	Compatibility *CompatibilityScore `json:"compatibility"`
	Timestamp     time.Time           `json:"timestamp"`
}
