// Package vocab holds the reference vocabularies used by the extraction engine:
// known skill phrases and known company names. A Vocabulary is loaded once and never mutated.
package vocab

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-parser/internal/nlp"
)

//go:embed skills.json
var defaultSkills []byte

//go:embed companies.json
var defaultCompanies []byte

// Vocabulary is an immutable pair of skill and company lists with their phrase matchers
type Vocabulary struct {
	skills    []string
	companies []string

	skillMatcher   *nlp.PhraseMatcher
	companyMatcher *nlp.PhraseMatcher
}

// Store is a database holding vocabulary tables
type Store interface {
	ListSkills(ctx context.Context) ([]string, error)
	ListCompanies(ctx context.Context) ([]string, error)
}

type skillsFile struct {
	Skills []string `json:"skills"`
}

type companiesFile struct {
	Companies []string `json:"companies"`
}

// New builds a vocabulary from raw lists. Entries are trimmed; blanks and
// case-insensitive duplicates are dropped, keeping the first spelling.
func New(skills, companies []string) *Vocabulary {
	v := &Vocabulary{
		skills:    clean(skills),
		companies: clean(companies),
	}
	v.skillMatcher = nlp.NewPhraseMatcher(v.skills)
	v.companyMatcher = nlp.NewPhraseMatcher(v.companies)
	return v
}

// Default returns the vocabulary embedded in the binary
func Default() (*Vocabulary, error) {
	skills, err := decodeSkills(defaultSkills)
	if err != nil {
		return nil, &LoadError{Source: "embedded", Message: "invalid skills.json", Cause: err}
	}
	companies, err := decodeCompanies(defaultCompanies)
	if err != nil {
		return nil, &LoadError{Source: "embedded", Message: "invalid companies.json", Cause: err}
	}
	return New(skills, companies), nil
}

// LoadFile reads skills and companies from JSON list files. An empty path
// falls back to the embedded list for that vocabulary.
func LoadFile(skillsPath, companiesPath string) (*Vocabulary, error) {
	skillsData, companiesData := defaultSkills, defaultCompanies
	var err error
	if skillsPath != "" {
		if skillsData, err = os.ReadFile(skillsPath); err != nil {
			return nil, &LoadError{Source: skillsPath, Message: "failed to read skills file", Cause: err}
		}
	}
	if companiesPath != "" {
		if companiesData, err = os.ReadFile(companiesPath); err != nil {
			return nil, &LoadError{Source: companiesPath, Message: "failed to read companies file", Cause: err}
		}
	}

	skills, err := decodeSkills(skillsData)
	if err != nil {
		return nil, &LoadError{Source: skillsPath, Message: "invalid skills file", Cause: err}
	}
	companies, err := decodeCompanies(companiesData)
	if err != nil {
		return nil, &LoadError{Source: companiesPath, Message: "invalid companies file", Cause: err}
	}
	return New(skills, companies), nil
}

// LoadFromDB reads the vocabulary tables from a database
func LoadFromDB(ctx context.Context, store Store) (*Vocabulary, error) {
	skills, err := store.ListSkills(ctx)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Message: "failed to list skills", Cause: err}
	}
	companies, err := store.ListCompanies(ctx)
	if err != nil {
		return nil, &LoadError{Source: "postgres", Message: "failed to list companies", Cause: err}
	}
	if len(skills) == 0 && len(companies) == 0 {
		return nil, &LoadError{Source: "postgres", Message: "vocabulary tables are empty"}
	}
	return New(skills, companies), nil
}

// Skills returns a copy of the skill phrases
func (v *Vocabulary) Skills() []string {
	return append([]string(nil), v.skills...)
}

// Companies returns a copy of the company names
func (v *Vocabulary) Companies() []string {
	return append([]string(nil), v.companies...)
}

// SkillMatcher returns the phrase matcher over the skill vocabulary
func (v *Vocabulary) SkillMatcher() *nlp.PhraseMatcher {
	return v.skillMatcher
}

// CompanyMatcher returns the phrase matcher over the company vocabulary
func (v *Vocabulary) CompanyMatcher() *nlp.PhraseMatcher {
	return v.companyMatcher
}

func decodeSkills(data []byte) ([]string, error) {
	var f skillsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Skills == nil {
		return nil, fmt.Errorf("missing \"skills\" list")
	}
	return f.Skills, nil
}

func decodeCompanies(data []byte) ([]string, error) {
	var f companiesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Companies == nil {
		return nil, fmt.Errorf("missing \"companies\" list")
	}
	return f.Companies, nil
}

func clean(entries []string) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e = strings.Join(strings.Fields(e), " ")
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
