package nlp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

// ProseAnalyzer tags tokens and recognizes PERSON and GPE entities with the
// prose model. Organisations and noun chunks are derived from rules over its tags.
type ProseAnalyzer struct {
	mu sync.Mutex
}

// NewProseAnalyzer creates a prose-backed analyzer
func NewProseAnalyzer() *ProseAnalyzer {
	return &ProseAnalyzer{}
}

// Analyze annotates text. Calls into the prose model are serialized.
func (a *ProseAnalyzer) Analyze(ctx context.Context, text string) (*Document, error) {
	if err := checkInput(ctx, text); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return &Document{Text: text}, nil
	}

	pdoc, err := a.model(text)
	if err != nil {
		return nil, &AnalysisError{Message: "prose model failed", Cause: err}
	}

	tokens := alignTokens(text, pdoc.Tokens())
	doc := &Document{
		Text:       text,
		Tokens:     tokens,
		Sentences:  alignSentences(text, tokens, pdoc.Sentences()),
		NounChunks: chunkByTags(text, tokens),
	}
	doc.Entities = append(alignEntities(text, tokens, pdoc.Entities()), recognizeOrgs(text, tokens)...)
	sortEntities(doc.Entities)
	return doc, nil
}

func (a *ProseAnalyzer) model(text string) (doc *prose.Document, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prose panic: %v", r)
		}
	}()
	return prose.NewDocument(text)
}

// alignTokens recovers byte offsets for prose tokens. Tokens that cannot be located are dropped.
func alignTokens(text string, ptokens []prose.Token) []Token {
	tokens := make([]Token, 0, len(ptokens))
	cursor, line := 0, 0
	for _, pt := range ptokens {
		if pt.Text == "" {
			continue
		}
		idx := strings.Index(text[cursor:], pt.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		line += strings.Count(text[cursor:start], "\n")
		end := start + len(pt.Text)
		tokens = append(tokens, Token{Text: pt.Text, Start: start, End: end, Line: line, Tag: pt.Tag})
		cursor = end
	}
	return tokens
}

// alignSentences maps prose sentences onto token ranges and additionally breaks at line ends
func alignSentences(text string, tokens []Token, psents []prose.Sentence) []Span {
	starts := make(map[int]bool, len(psents))
	cursor := 0
	for _, s := range psents {
		trimmed := strings.TrimSpace(s.Text)
		if trimmed == "" {
			continue
		}
		idx := strings.Index(text[cursor:], trimmed)
		if idx < 0 {
			continue
		}
		starts[cursor+idx] = true
		cursor += idx + len(trimmed)
	}

	var sentences []Span
	from := 0
	for i := 1; i <= len(tokens); i++ {
		if i < len(tokens) && tokens[i].Line == tokens[i-1].Line && !starts[tokens[i].Start] {
			continue
		}
		sentences = append(sentences, newSpan(text, tokens, from, i))
		from = i
	}
	return sentences
}

// alignEntities maps prose entities onto token spans
func alignEntities(text string, tokens []Token, pents []prose.Entity) []Entity {
	var entities []Entity
	next := 0
	for _, pe := range pents {
		first := pe.Text
		if f := strings.Fields(pe.Text); len(f) > 0 {
			first = f[0]
		}
		for i := next; i < len(tokens); i++ {
			if tokens[i].Text != first || !strings.HasPrefix(text[tokens[i].Start:], pe.Text) {
				continue
			}
			end := i + 1
			for end < len(tokens) && tokens[end].End <= tokens[i].Start+len(pe.Text) {
				end++
			}
			entities = append(entities, Entity{Span: newSpan(text, tokens, i, end), Label: Label(pe.Label)})
			next = end
			break
		}
	}
	return entities
}
