package nlp

import "fmt"

// AnalysisError reports a failure of the linguistic analysis itself
// (malformed input encoding, model failure, cancelled context).
type AnalysisError struct {
	Message string
	Cause   error
}

func (e *AnalysisError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}
