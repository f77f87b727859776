package ranking

import "math"

// Weights are the relative contributions of the sub-scores to the overall score
type Weights struct {
	TFIDF    float64 `json:"tfidf"`
	Semantic float64 `json:"semantic"`
	Skill    float64 `json:"skill"`
}

// DefaultWeights returns 0.3 lexical, 0.3 semantic and 0.4 skill match
func DefaultWeights() Weights {
	return Weights{TFIDF: 0.3, Semantic: 0.3, Skill: 0.4}
}

// Normalize checks that weights are finite and non-negative with a positive
// sum, and scales them to sum to 1.
func (w Weights) Normalize() (Weights, error) {
	for _, v := range []float64{w.TFIDF, w.Semantic, w.Skill} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, &WeightsError{Message: "weights must be finite"}
		}
		if v < 0 {
			return Weights{}, &WeightsError{Message: "weights must be non-negative"}
		}
	}
	sum := w.TFIDF + w.Semantic + w.Skill
	if sum <= 0 {
		return Weights{}, &WeightsError{Message: "at least one weight must be positive"}
	}
	return Weights{TFIDF: w.TFIDF / sum, Semantic: w.Semantic / sum, Skill: w.Skill / sum}, nil
}
