package ranking

import "fmt"

// ValidationError represents a malformed job description rejected before scoring
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// WeightsError represents an invalid score weighting
type WeightsError struct {
	Message string
}

func (e *WeightsError) Error() string {
	return fmt.Sprintf("invalid weights: %s", e.Message)
}
