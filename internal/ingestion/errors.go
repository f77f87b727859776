package ingestion

import "fmt"

// ExtractionError represents a document whose text could not be extracted:
// unsupported format, corrupt file or OCR failure. It is never retried.
type ExtractionError struct {
	Format  Format
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	prefix := "extraction failed"
	if e.Format != "" {
		prefix = fmt.Sprintf("%s extraction failed", e.Format)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
