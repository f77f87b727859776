package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tokenTexts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"technology names", "C++ and C# with Node.js.", []string{"C++", "and", "C#", "with", "Node.js", "."}},
		{"dotted degree", "Ph.D. in Physics", []string{"Ph.D", ".", "in", "Physics"}},
		{"year range in parens", "Google (2019-2021)", []string{"Google", "(", "2019-2021", ")"}},
		{"email", "john.doe@example.com", []string{"john.doe", "@", "example.com"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenTexts(Tokenize(tt.input)))
		})
	}
}

func TestTokenize_OffsetsAndLines(t *testing.T) {
	text := "Jane Roe\n\nData Scientist"
	tokens := Tokenize(text)

	assert.Len(t, tokens, 4)
	for _, tok := range tokens {
		assert.Equal(t, tok.Text, text[tok.Start:tok.End])
	}
	assert.Equal(t, []int{0, 0, 2, 2}, []int{tokens[0].Line, tokens[1].Line, tokens[2].Line, tokens[3].Line})
}

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "periods and newlines",
			input:    "I worked at Google. Then I moved.\nNew line",
			expected: []string{"I worked at Google.", "Then I moved.", "New line"},
		},
		{
			name:     "dotted abbreviation does not split",
			input:    "She holds a Ph.D. In Physics",
			expected: []string{"She holds a Ph.D. In Physics"},
		},
		{
			name:     "company suffix does not split",
			input:    "Acme Inc. Was founded early",
			expected: []string{"Acme Inc. Was founded early"},
		},
		{
			name:     "lowercase continuation does not split",
			input:    "Version 2. and more",
			expected: []string{"Version 2. and more"},
		},
		{
			name:     "question and exclamation",
			input:    "Ready? Yes! Done",
			expected: []string{"Ready?", "Yes!", "Done"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			var got []string
			for _, s := range segmentSentences(tt.input, tokens) {
				got = append(got, s.Text)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsStopWord(t *testing.T) {
	assert.True(t, IsStopWord("the"))
	assert.True(t, IsStopWord("with"))
	assert.False(t, IsStopWord("python"))
	assert.False(t, IsStopWord("The"), "lookups are case-sensitive on lowercase input")
}
