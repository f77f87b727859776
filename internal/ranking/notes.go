package ranking

import (
	"fmt"
	"strings"
)

// generateNotes creates a brief explanation of the score
func generateNotes(tfidf, semantic, skillMatch float64, matched []string) string {
	var parts []string

	// Skill match description
	switch {
	case len(matched) == 0:
		parts = append(parts, "No required skills matched")
	case skillMatch >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(matched, ", ")))
	case skillMatch >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(matched, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(matched, ", ")))
	}

	// Semantic similarity description
	if semantic >= 0.6 {
		parts = append(parts, "High semantic similarity")
	} else if semantic >= 0.3 {
		parts = append(parts, "Medium semantic similarity")
	} else {
		parts = append(parts, "Low semantic similarity")
	}

	// Keyword overlap description
	if tfidf >= 0.5 {
		parts = append(parts, "Good keyword overlap")
	} else if tfidf > 0 {
		parts = append(parts, "Some keyword overlap")
	}

	return strings.Join(parts, ". ")
}
