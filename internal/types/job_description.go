package types

import "github.com/go-playground/validator/v10"

// JobDescription is the job posting a resume is scored against
type JobDescription struct {
	Title                   string   `json:"title" validate:"required"`
	Description             string   `json:"description" validate:"required"`
	Requirements            []string `json:"requirements" validate:"required"`
	PreferredQualifications []string `json:"preferred_qualifications,omitempty"`
}

// Validate validates the JobDescription using the validator.
func (j *JobDescription) Validate() error {
	validate := validator.New()
	return validate.Struct(j)
}
