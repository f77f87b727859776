package nlp

import (
	_ "embed"
	"sort"
	"strings"
)

//go:embed given_names.txt
var givenNamesData string

var givenNames = loadGivenNames(givenNamesData)

func loadGivenNames(data string) map[string]bool {
	set := make(map[string]bool)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = true
	}
	return set
}

// orgKeywords mark a capitalized run as an organisation
var orgKeywords = toSet(
	"university", "college", "institute", "school", "academy", "polytechnic",
	"inc", "corp", "corporation", "llc", "ltd", "gmbh", "technologies", "labs",
	"bank", "foundation", "group", "company", "systems", "solutions",
)

// orgConnectors may appear inside an organisation name when followed by a capitalized word
var orgConnectors = toSet("of", "and", "&", "the", "for", "at")

// sectionWords are resume headings that precede an organisation on the same line
var sectionWords = toSet(
	"education", "experience", "employment", "work", "history", "skills", "graduated",
	"attended", "studied", "joined", "at", "from", "the", "summary", "profile",
	"worked", "working", "interned", "employer", "institution",
)

// recognizeEntities finds PERSON and ORG entities with capitalization rules
func recognizeEntities(text string, tokens []Token) []Entity {
	var entities []Entity
	entities = append(entities, recognizePersons(text, tokens)...)
	entities = append(entities, recognizeOrgs(text, tokens)...)
	sortEntities(entities)
	return entities
}

// recognizePersons emits title-cased runs of 2-4 tokens on one line that start with a known given name
func recognizePersons(text string, tokens []Token) []Entity {
	var entities []Entity
	for i := 0; i < len(tokens); i++ {
		if !isNameToken(tokens[i]) || !givenNames[tokens[i].Lower()] {
			continue
		}
		j := i + 1
		for j < len(tokens) && j-i < 4 && isNameToken(tokens[j]) && adjacent(text, tokens[j-1], tokens[j]) {
			j++
		}
		if j-i < 2 {
			continue
		}
		entities = append(entities, Entity{Span: newSpan(text, tokens, i, j), Label: LabelPerson})
		i = j - 1
	}
	return entities
}

func isNameToken(t Token) bool {
	return t.IsAlpha() && (t.IsTitle() || t.IsUpper())
}

// recognizeOrgs emits capitalized runs containing an organisation keyword
func recognizeOrgs(text string, tokens []Token) []Entity {
	var entities []Entity
	for i := 0; i < len(tokens); {
		if !isCapitalized(tokens[i]) {
			i++
			continue
		}
		j := i + 1
		for j < len(tokens) && adjacent(text, tokens[j-1], tokens[j]) {
			if isCapitalized(tokens[j]) {
				j++
				continue
			}
			if orgConnectors[tokens[j].Lower()] && j+1 < len(tokens) &&
				isCapitalized(tokens[j+1]) && adjacent(text, tokens[j], tokens[j+1]) {
				j += 2
				continue
			}
			break
		}
		start := i
		for start < j-1 && sectionWords[tokens[start].Lower()] {
			start++
		}
		if hasOrgKeyword(tokens[start:j]) {
			entities = append(entities, Entity{Span: newSpan(text, tokens, start, j), Label: LabelOrg})
		}
		i = j
	}
	return entities
}

func isCapitalized(t Token) bool {
	if t.IsPunct() {
		return false
	}
	r := firstRune(t.Text)
	return t.IsTitle() || t.IsUpper() || (r >= 'A' && r <= 'Z')
}

func hasOrgKeyword(tokens []Token) bool {
	for _, t := range tokens {
		if orgKeywords[strings.TrimSuffix(t.Lower(), ".")] {
			return true
		}
	}
	return false
}

func sortEntities(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Start < entities[j].Start
	})
}
