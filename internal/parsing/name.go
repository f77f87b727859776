package parsing

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/types"
)

// extractName returns the first PERSON entity of at least two words. Resume
// headers rarely look like prose, so it falls back to the capitalized words
// that open the first sentence, when there are at least two of them on one line.
func extractName(doc *nlp.Document) *string {
	for _, ent := range doc.EntitiesByLabel(nlp.LabelPerson) {
		if len(strings.Fields(ent.Text)) >= 2 {
			return types.StringPtr(ent.Text)
		}
	}

	if len(doc.Sentences) == 0 {
		return nil
	}
	tokens := doc.SpanTokens(doc.Sentences[0])
	var parts []string
	for _, t := range tokens {
		if !isNameWord(t) || t.Line != tokens[0].Line {
			break
		}
		parts = append(parts, t.Text)
	}
	if len(parts) < 2 {
		return nil
	}
	return types.StringPtr(strings.Join(parts, " "))
}

func isNameWord(t nlp.Token) bool {
	return t.IsAlpha() && (t.IsTitle() || t.IsUpper())
}
