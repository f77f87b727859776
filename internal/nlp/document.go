// Package nlp is the linguistic analysis capability used by the extraction engine:
// tokenization, sentence segmentation, entity recognition, noun chunks and phrase matching.
package nlp

import (
	"context"
	"strings"
	"unicode"
)

// Label is a named-entity type
type Label string

// Entity labels produced by the analyzers
const (
	LabelPerson Label = "PERSON"
	LabelOrg    Label = "ORG"
	LabelGPE    Label = "GPE"
)

// Analyzer turns plain text into an annotated Document.
// Implementations must be safe for concurrent use.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Document, error)
}

// Token is a single token of the analyzed text
type Token struct {
	Text  string
	Start int    // byte offset into Document.Text
	End   int    // exclusive byte offset
	Line  int    // zero-based line number of the token
	Tag   string // part-of-speech tag, empty when the analyzer does not tag
}

// Lower returns the lowercased token text
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}

// IsAlpha reports whether the token consists of letters only
func (t Token) IsAlpha() bool {
	if t.Text == "" {
		return false
	}
	for _, r := range t.Text {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsTitle reports whether the token is title-cased: an uppercase letter followed by lowercase letters only.
func (t Token) IsTitle() bool {
	first := true
	for _, r := range t.Text {
		if !unicode.IsLetter(r) {
			if first {
				return false
			}
			continue
		}
		if first {
			if !unicode.IsUpper(r) {
				return false
			}
			first = false
			continue
		}
		if unicode.IsUpper(r) {
			return false
		}
	}
	return !first
}

// IsUpper reports whether every letter of the token is uppercase (and it has at least two letters)
func (t Token) IsUpper() bool {
	letters := 0
	for _, r := range t.Text {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}

// IsPunct reports whether the token is a single punctuation or symbol character
func (t Token) IsPunct() bool {
	for _, r := range t.Text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return t.Text != ""
}

// Span is a contiguous range of tokens
type Span struct {
	Text       string
	Start      int // byte offset into Document.Text
	End        int
	TokenStart int // index of the first token
	TokenEnd   int // index one past the last token
}

// Entity is a recognized named entity
type Entity struct {
	Span
	Label Label
}

// Document is the result of analyzing a text
type Document struct {
	Text       string
	Tokens     []Token
	Sentences  []Span
	Entities   []Entity
	NounChunks []Span
}

// SpanTokens returns the tokens covered by s
func (d *Document) SpanTokens(s Span) []Token {
	return d.Tokens[s.TokenStart:s.TokenEnd]
}

// EntitiesByLabel returns the entities with the given label, in text order
func (d *Document) EntitiesByLabel(label Label) []Entity {
	var out []Entity
	for _, e := range d.Entities {
		if e.Label == label {
			out = append(out, e)
		}
	}
	return out
}

// newSpan builds the span covering tokens[from:to]
func newSpan(text string, tokens []Token, from, to int) Span {
	start, end := tokens[from].Start, tokens[to-1].End
	return Span{
		Text:       text[start:end],
		Start:      start,
		End:        end,
		TokenStart: from,
		TokenEnd:   to,
	}
}

// adjacent reports whether only spaces or tabs separate tokens a and b
func adjacent(text string, a, b Token) bool {
	if a.Line != b.Line {
		return false
	}
	return strings.Trim(text[a.End:b.Start], " \t") == ""
}
