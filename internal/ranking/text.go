package ranking

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// resumeKeywordText joins skills, experience and education for lexical scoring
func resumeKeywordText(r *types.ResumeEntities) string {
	var parts []string
	parts = append(parts, r.Skills...)
	parts = append(parts, experienceText(r)...)
	parts = append(parts, educationText(r)...)
	return strings.Join(parts, " ")
}

// jobKeywordText joins description, requirements and preferred qualifications
func jobKeywordText(j *types.JobDescription) string {
	parts := []string{j.Description}
	parts = append(parts, j.Requirements...)
	parts = append(parts, j.PreferredQualifications...)
	return strings.Join(parts, " ")
}

// resumeFullText joins every extracted field except contact details
func resumeFullText(r *types.ResumeEntities) string {
	var parts []string
	if r.Name != nil {
		parts = append(parts, *r.Name)
	}
	parts = append(parts, r.Skills...)
	parts = append(parts, experienceText(r)...)
	parts = append(parts, educationText(r)...)
	parts = append(parts, r.Certifications...)
	parts = append(parts, r.Projects...)
	return strings.Join(parts, " ")
}

// jobFullText joins title, description, requirements and preferred qualifications
func jobFullText(j *types.JobDescription) string {
	return j.Title + " " + jobKeywordText(j)
}

func experienceText(r *types.ResumeEntities) []string {
	var parts []string
	for _, exp := range r.Experience {
		parts = appendNonEmpty(parts, exp.Company, types.Deref(exp.Position), types.Deref(exp.Duration))
	}
	return parts
}

func educationText(r *types.ResumeEntities) []string {
	var parts []string
	for _, edu := range r.Education {
		parts = appendNonEmpty(parts, types.Deref(edu.Institution), types.Deref(edu.Degree))
	}
	return parts
}

func appendNonEmpty(parts []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return parts
}
