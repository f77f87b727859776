package vocab

import "fmt"

// LoadError represents a failure to load a vocabulary source
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vocabulary %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("vocabulary %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
