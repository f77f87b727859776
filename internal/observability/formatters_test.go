package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-parser/internal/ranking"
	"github.com/jonathan/resume-parser/internal/types"
)

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := types.NewResumeEntities()
	resume.Name = types.StringPtr("Jane Smith")
	resume.Contact.Email = types.StringPtr("jane@example.com")
	resume.Education = []types.Education{
		{Institution: types.StringPtr("MIT"), Degree: types.StringPtr("BS Computer Science")},
	}
	resume.Experience = []types.Experience{
		{Company: "Google", Position: types.StringPtr("Software Engineer"), Duration: types.StringPtr("2019-2021")},
	}
	resume.Skills = []string{"Go", "Python", "SQL", "Docker", "Kubernetes", "AWS", "React"}

	p.PrintResume("resume.pdf", resume)
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME: resume.pdf")
	assert.Contains(t, output, "Jane Smith")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "Phone:  -")
	assert.Contains(t, output, "BS Computer Science / MIT")
	assert.Contains(t, output, "Software Engineer at Google (2019-2021)")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "React")
	assert.NotContains(t, output, "Certifications")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResume("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintScore(&types.CompatibilityScore{
		OverallScore:       0.5,
		TFIDFSimilarity:    0.25,
		SemanticSimilarity: 0.75,
		SkillMatch:         0.5,
	})
	output := buf.String()

	assert.Contains(t, output, "COMPATIBILITY")
	assert.Contains(t, output, "Overall:    0.500")
	assert.Contains(t, output, "Semantic:   0.750")
}

func TestPrintExplanation(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintExplanation(&ranking.Explanation{
		Score:               types.CompatibilityScore{SkillMatch: 2.0 / 3.0},
		MatchedRequirements: []string{"Machine Learning", "Python"},
		MissingRequirements: []string{"Data Analysis"},
		Notes:               "Moderate skill match",
	})
	output := buf.String()

	assert.Contains(t, output, "Skills:     0.667")
	assert.Contains(t, output, "Matched requirements:")
	assert.Contains(t, output, "• Python")
	assert.Contains(t, output, "• Data Analysis")
	assert.Contains(t, output, "Notes: Moderate skill match")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("TITLE", strings.Repeat("x", 100))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)))
	}
	assert.Contains(t, buf.String(), "...")
}
