// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeEntities is the structured record extracted from resume text.
// Set-valued fields (Skills, Certifications, Projects) are sorted and free of duplicates.
type ResumeEntities struct {
	Name           *string      `json:"name"`
	Contact        Contact      `json:"contact"`
	Education      []Education  `json:"education"`
	Experience     []Experience `json:"experience"`
	Skills         []string     `json:"skills"`
	Certifications []string     `json:"certifications"`
	Projects       []string     `json:"projects"`
}

// Contact holds the contact details found in a resume
type Contact struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Education is a single education entry. Either field may be unset.
type Education struct {
	Institution *string `json:"institution,omitempty"`
	Degree      *string `json:"degree,omitempty"`
}

// Experience is a single work experience entry
type Experience struct {
	Company  string  `json:"company"`
	Position *string `json:"position"`
	Duration *string `json:"duration"` // free-form, as found (e.g. "2019-2021")
}

// NewResumeEntities returns an empty record with non-nil collections,
// so that it serializes as empty lists rather than nulls.
func NewResumeEntities() *ResumeEntities {
	return &ResumeEntities{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []string{},
		Certifications: []string{},
		Projects:       []string{},
	}
}

// IsEmpty reports whether no entity at all was recorded
func (r *ResumeEntities) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Name == nil &&
		r.Contact.Email == nil &&
		r.Contact.Phone == nil &&
		len(r.Education) == 0 &&
		len(r.Experience) == 0 &&
		len(r.Skills) == 0 &&
		len(r.Certifications) == 0 &&
		len(r.Projects) == 0
}

// Key returns the deduplication key of an education entry: (institution, degree) with unset as "".
func (e Education) Key() [2]string {
	return [2]string{Deref(e.Institution), Deref(e.Degree)}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
