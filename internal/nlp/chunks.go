package nlp

import (
	"strings"
	"unicode"
)

// breakWords end a noun chunk in addition to stop words
var breakWords = toSet(
	"worked", "working", "work", "developed", "developing", "develop", "built", "building",
	"build", "created", "creating", "designed", "designing", "implemented", "implementing",
	"led", "leading", "managed", "managing", "using", "used", "use", "experienced",
	"experience", "including", "responsible", "proficient", "skilled", "knowledge",
	"familiar", "graduated", "completed", "maintained", "improved", "delivered",
	"collaborated", "like", "looking", "seeking", "strong", "expert",
)

// chunkByRules groups runs of content words on a single line into noun chunks
func chunkByRules(text string, tokens []Token) []Span {
	return chunkRuns(text, tokens, func(t Token) bool {
		lower := t.Lower()
		return hasLetter(t.Text) && !stopWords[lower] && !breakWords[lower]
	})
}

// chunkByTags groups runs of adjective and noun tags into noun chunks
func chunkByTags(text string, tokens []Token) []Span {
	return chunkRuns(text, tokens, func(t Token) bool {
		if !hasLetter(t.Text) || breakWords[t.Lower()] {
			return false
		}
		return strings.HasPrefix(t.Tag, "NN") || strings.HasPrefix(t.Tag, "JJ")
	})
}

func chunkRuns(text string, tokens []Token, inChunk func(Token) bool) []Span {
	var chunks []Span
	start := -1
	flush := func(end int) {
		if start >= 0 {
			chunks = append(chunks, newSpan(text, tokens, start, end))
			start = -1
		}
	}
	for i, t := range tokens {
		if !inChunk(t) {
			flush(i)
			continue
		}
		if start >= 0 && !adjacent(text, tokens[i-1], t) {
			flush(i)
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(tokens))
	return chunks
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
