package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/nlp"
)

// technicalTerms mark a noun chunk as a skill candidate
var technicalTerms = []string{
	"programming", "development", "engineering", "framework", "language",
	"technology", "tool", "software", "system",
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// extractSkills unions vocabulary matches with technical noun chunks of one to three words
func extractSkills(doc *nlp.Document, skills *nlp.PhraseMatcher) []string {
	set := make(map[string]bool)
	for _, m := range skills.Match(doc) {
		set[strings.ToLower(m.Text)] = true
	}

	for _, chunk := range doc.NounChunks {
		lower := strings.ToLower(chunk.Text)
		if !containsAny(lower, technicalTerms) {
			continue
		}
		words := strings.Fields(nonAlphanumeric.ReplaceAllString(lower, ""))
		if len(words) >= 1 && len(words) <= 3 {
			set[strings.Join(words, " ")] = true
		}
	}
	return sortedSet(set)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
