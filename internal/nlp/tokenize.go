package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenPattern keeps technology names (C++, C#, Node.js), dotted abbreviations (B.Sc, Ph.D)
// and hyphenated ranges (2019-2021) as single tokens; other symbols become one-rune tokens.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:[.'’\-/&][\p{L}\p{N}]+)*[+#]*|[^\s\p{L}\p{N}]`)

// Tokenize splits text into tokens with byte offsets and line numbers
func Tokenize(text string) []Token {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	line, last := 0, 0
	for _, loc := range locs {
		line += strings.Count(text[last:loc[0]], "\n")
		last = loc[0]
		tokens = append(tokens, Token{
			Text:  text[loc[0]:loc[1]],
			Start: loc[0],
			End:   loc[1],
			Line:  line,
		})
	}
	return tokens
}

// abbreviations never end a sentence when followed by a period
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"inc": true, "ltd": true, "co": true, "corp": true, "st": true, "vs": true, "no": true,
	"dept": true, "univ": true, "approx": true, "jan": true, "feb": true, "mar": true,
	"apr": true, "jun": true, "jul": true, "aug": true, "sep": true, "sept": true,
	"oct": true, "nov": true, "dec": true,
}

// segmentSentences splits tokens into sentences. Line breaks always end a sentence;
// '.', '!' and '?' end one when followed by whitespace and a capitalized word or a digit.
func segmentSentences(text string, tokens []Token) []Span {
	var sentences []Span
	start := 0
	for i := range tokens {
		if i+1 < len(tokens) && !endsSentence(text, tokens, i) {
			continue
		}
		sentences = append(sentences, newSpan(text, tokens, start, i+1))
		start = i + 1
	}
	return sentences
}

func endsSentence(text string, tokens []Token, i int) bool {
	tok, next := tokens[i], tokens[i+1]
	if tok.Line != next.Line {
		return true
	}
	switch tok.Text {
	case ".", "!", "?":
	default:
		return false
	}
	if next.Start == tok.End {
		return false
	}
	if r := firstRune(next.Text); !unicode.IsUpper(r) && !unicode.IsDigit(r) && !strings.ContainsRune("(\"'“", r) {
		return false
	}
	if tok.Text == "." && i > 0 {
		prev := tokens[i-1]
		if prev.End == tok.Start && isAbbreviation(prev.Text) {
			return false
		}
	}
	return true
}

// isAbbreviation covers known abbreviations, single initials and dotted forms like Ph.D or B.Sc
func isAbbreviation(word string) bool {
	if strings.Contains(word, ".") {
		return true
	}
	if len([]rune(word)) == 1 && unicode.IsLetter(firstRune(word)) {
		return true
	}
	return abbreviations[strings.ToLower(word)]
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
