package parsing

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/nlp"
)

var (
	certificationKeywords = []string{"certified", "certification", "license", "licensed", "certificate"}
	projectKeywords       = []string{"project", "developed", "created", "built", "designed", "implemented"}
)

// extractSentences returns every sentence containing one of the keywords, with
// punctuation replaced by spaces and whitespace collapsed. Entries are free text.
func extractSentences(doc *nlp.Document, keywords []string) []string {
	set := make(map[string]bool)
	for _, sent := range doc.Sentences {
		if !containsAny(strings.ToLower(sent.Text), keywords) {
			continue
		}
		cleaned := strings.Join(strings.Fields(nonAlphanumeric.ReplaceAllString(sent.Text, " ")), " ")
		if cleaned != "" {
			set[cleaned] = true
		}
	}
	return sortedSet(set)
}
