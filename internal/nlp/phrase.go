package nlp

import "strings"

// Match is a phrase found in a document
type Match struct {
	Phrase string // the vocabulary phrase as registered
	Span
}

// PhraseMatcher finds exact, case-insensitive occurrences of known phrases.
// It is immutable after construction and safe for concurrent use.
type PhraseMatcher struct {
	root *phraseNode
}

type phraseNode struct {
	children map[string]*phraseNode
	phrase   string
	terminal bool
}

// NewPhraseMatcher tokenizes each phrase with the analyzer tokenizer and indexes it.
// Empty phrases are ignored; the first registration of a duplicate wins.
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	m := &PhraseMatcher{root: &phraseNode{}}
	for _, phrase := range phrases {
		tokens := Tokenize(phrase)
		if len(tokens) == 0 {
			continue
		}
		node := m.root
		for _, t := range tokens {
			key := t.Lower()
			if node.children == nil {
				node.children = make(map[string]*phraseNode)
			}
			next, ok := node.children[key]
			if !ok {
				next = &phraseNode{}
				node.children[key] = next
			}
			node = next
		}
		if !node.terminal {
			node.terminal = true
			node.phrase = strings.TrimSpace(phrase)
		}
	}
	return m
}

// Match returns non-overlapping matches in text order; at each position the longest phrase wins
func (m *PhraseMatcher) Match(doc *Document) []Match {
	return m.MatchRange(doc, 0, len(doc.Tokens))
}

// MatchRange matches only inside tokens[from:to]
func (m *PhraseMatcher) MatchRange(doc *Document, from, to int) []Match {
	var matches []Match
	for i := from; i < to; {
		end, phrase := m.longestAt(doc.Tokens, i, to)
		if end < 0 {
			i++
			continue
		}
		matches = append(matches, Match{Phrase: phrase, Span: newSpan(doc.Text, doc.Tokens, i, end)})
		i = end
	}
	return matches
}

func (m *PhraseMatcher) longestAt(tokens []Token, i, to int) (int, string) {
	end, phrase := -1, ""
	node := m.root
	for j := i; j < to; j++ {
		next, ok := node.children[tokens[j].Lower()]
		if !ok {
			break
		}
		node = next
		if node.terminal {
			end, phrase = j+1, node.phrase
		}
	}
	return end, phrase
}
