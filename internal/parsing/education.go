package parsing

import (
	"regexp"
	"sort"

	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/types"
)

// institutionWords mark an organisation entity as an education institution
var institutionWords = map[string]bool{
	"university": true,
	"college":    true,
	"institute":  true,
}

const fieldOfStudy = `(?:[ \t]+in[ \t]+[A-Z][A-Za-z&]*(?:[ \t]+(?:and[ \t]+|&[ \t]+|of[ \t]+)?[A-Z][A-Za-z&]*)*)`

// degreePatterns recognise degree phrases. Bare two-letter abbreviations are
// only accepted with a field of study ("MS in Physics") to avoid matching other uses.
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\b(?:bachelor|master|doctor)(?:'s)?\s+of\s+(?:science|arts|engineering|technology|business\s+administration|philosophy|laws|education|fine\s+arts|computer\s+applications))\b` + fieldOfStudy + `?`),
	regexp.MustCompile(`(?i:\b(?:b\.?\s?sc|m\.?\s?sc|b\.?\s?tech|m\.?\s?tech|ph\.?\s?d|mba))\b` + fieldOfStudy + `?`),
	regexp.MustCompile(`\b(?:B\.S|M\.S|B\.A|M\.A)\b` + fieldOfStudy + `?`),
	regexp.MustCompile(`\b(?:BS|MS|BA|MA)` + fieldOfStudy),
}

// extractEducation merges institutions from ORG entities with degree phrases,
// keeping the first record for each (institution, degree) pair.
func extractEducation(doc *nlp.Document) []types.Education {
	var candidates []types.Education
	for _, ent := range doc.EntitiesByLabel(nlp.LabelOrg) {
		for _, t := range doc.SpanTokens(ent.Span) {
			if institutionWords[t.Lower()] {
				candidates = append(candidates, types.Education{Institution: types.StringPtr(ent.Text)})
				break
			}
		}
	}
	for _, degree := range findDegrees(doc.Text) {
		candidates = append(candidates, types.Education{Degree: types.StringPtr(degree)})
	}

	education := make([]types.Education, 0, len(candidates))
	seen := make(map[[2]string]bool, len(candidates))
	for _, edu := range candidates {
		key := edu.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		education = append(education, edu)
	}
	return education
}

// findDegrees returns non-overlapping degree matches in text order;
// of two overlapping matches the earlier, then longer, one wins.
func findDegrees(text string) []string {
	var locs [][]int
	for _, p := range degreePatterns {
		locs = append(locs, p.FindAllStringIndex(text, -1)...)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i][0] != locs[j][0] {
			return locs[i][0] < locs[j][0]
		}
		return locs[i][1] > locs[j][1]
	})

	var degrees []string
	end := -1
	for _, loc := range locs {
		if loc[0] < end {
			continue
		}
		degrees = append(degrees, text[loc[0]:loc[1]])
		end = loc[1]
	}
	return degrees
}
