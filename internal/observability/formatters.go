// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/ranking"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// writeList writes up to limit items under a heading, summarizing the rest
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", heading)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintResume outputs a human-readable summary of the extracted resume entities.
func (p *Printer) PrintResume(filename string, resume *types.ResumeEntities) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name:   %s\n", orDash(resume.Name))
	fmt.Fprintf(&sb, "Email:  %s\n", orDash(resume.Contact.Email))
	fmt.Fprintf(&sb, "Phone:  %s\n", orDash(resume.Contact.Phone))
	sb.WriteString("\n")

	education := make([]string, 0, len(resume.Education))
	for _, e := range resume.Education {
		education = append(education, joinSet(" / ", e.Degree, e.Institution))
	}
	writeList(&sb, "Education", education, 3)

	experience := make([]string, 0, len(resume.Experience))
	for _, e := range resume.Experience {
		line := e.Company
		if e.Position != nil {
			line = *e.Position + " at " + line
		}
		if e.Duration != nil {
			line += " (" + *e.Duration + ")"
		}
		experience = append(experience, line)
	}
	writeList(&sb, "Experience", experience, maxItemsToShow)
	writeList(&sb, "Skills", resume.Skills, maxItemsToShow)
	writeList(&sb, "Certifications", resume.Certifications, 3)
	writeList(&sb, "Projects", resume.Projects, 3)

	title := "PARSED RESUME"
	if filename != "" {
		title += ": " + filename
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintScore outputs the component and overall compatibility scores.
func (p *Printer) PrintScore(score *types.CompatibilityScore) {
	if score == nil {
		return
	}
	p.printBox("COMPATIBILITY", scoreLines(score))
}

// PrintExplanation outputs a score with its matched and missing requirements.
func (p *Printer) PrintExplanation(explanation *ranking.Explanation) {
	if explanation == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(scoreLines(&explanation.Score))
	sb.WriteString("\n\n")
	writeList(&sb, "Matched requirements", explanation.MatchedRequirements, maxItemsToShow)
	writeList(&sb, "Missing requirements", explanation.MissingRequirements, maxItemsToShow)
	if explanation.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", explanation.Notes)
	}

	p.printBox("COMPATIBILITY", strings.TrimRight(sb.String(), "\n"))
}

func scoreLines(score *types.CompatibilityScore) string {
	return fmt.Sprintf("Overall:    %.3f\nTF-IDF:     %.3f\nSemantic:   %.3f\nSkills:     %.3f",
		score.OverallScore, score.TFIDFSimilarity, score.SemanticSimilarity, score.SkillMatch)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func joinSet(sep string, parts ...*string) string {
	var set []string
	for _, p := range parts {
		if p != nil && *p != "" {
			set = append(set, *p)
		}
	}
	if len(set) == 0 {
		return "-"
	}
	return strings.Join(set, sep)
}
