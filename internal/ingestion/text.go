package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	newlineRuns     = regexp.MustCompile(`\n+`)
)

// CleanText normalizes extracted text: only printable characters and line
// breaks remain, every run of horizontal whitespace becomes one space, lines
// are trimmed, blank lines are dropped and the result is trimmed.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF) and page breaks
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\f", "\n")

	// 2. Drop non-printable characters; other whitespace becomes a space
	content = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case unicode.IsSpace(r):
			return ' '
		case r == unicode.ReplacementChar || !unicode.IsPrint(r):
			return -1
		default:
			return r
		}
	}, content)

	// 3. Collapse whitespace and trim every line
	content = horizontalSpace.ReplaceAllString(content, " ")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")

	// 4. Remove blank lines
	content = newlineRuns.ReplaceAllString(content, "\n")

	return strings.TrimSpace(content)
}
