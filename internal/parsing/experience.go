package parsing

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/types"
)

// positionIndicators are checked in order; each one present overwrites the position
var positionIndicators = []string{"worked as", "position of", "role of", "as a", "position:"}

var parenthesized = regexp.MustCompile(`\(([^()]*)\)`)

// experienceState is the record being accumulated while walking sentences
type experienceState struct {
	company  string
	position *string
	duration *string
}

func (s *experienceState) open() bool {
	return s.company != ""
}

func (s *experienceState) hasDetails() bool {
	return s.position != nil || s.duration != nil
}

func (s *experienceState) record() types.Experience {
	return types.Experience{Company: s.company, Position: s.position, Duration: s.duration}
}

// extractExperience walks the sentences once. Position and duration found in a
// sentence update the open record; a known company different from the tracked
// one closes the open record (when it has a position or duration) and starts a
// new one with position and duration cleared. The last open record is always kept.
func extractExperience(doc *nlp.Document, companies *nlp.PhraseMatcher) []types.Experience {
	experience := []types.Experience{}
	var state experienceState

	for _, sent := range doc.Sentences {
		lower := strings.ToLower(sent.Text)

		if position := findPosition(lower); position != "" {
			state.position = types.StringPtr(position)
		}
		if duration := findDuration(sent.Text); duration != "" {
			state.duration = types.StringPtr(duration)
		}

		for _, m := range companies.MatchRange(doc, sent.TokenStart, sent.TokenEnd) {
			if m.Phrase == state.company {
				continue
			}
			if state.open() && state.hasDetails() {
				experience = append(experience, state.record())
			}
			state = experienceState{company: m.Phrase}
		}
	}

	if state.open() {
		experience = append(experience, state.record())
	}
	return experience
}

// findPosition returns the title-cased text after the last matching indicator, up to the next period
func findPosition(lower string) string {
	position := ""
	for _, indicator := range positionIndicators {
		idx := strings.Index(lower, indicator)
		if idx < 0 {
			continue
		}
		rest := lower[idx+len(indicator):]
		if end := strings.Index(rest, "."); end >= 0 {
			rest = rest[:end]
		}
		if rest = strings.TrimSpace(rest); rest != "" {
			position = cases.Title(language.English).String(rest)
		}
	}
	return position
}

// findDuration returns the contents of the last parenthesized span
func findDuration(sentence string) string {
	matches := parenthesized.FindAllStringSubmatch(sentence, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}
