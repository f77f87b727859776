// Package server provides the HTTP REST API for the resume parser.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/ranking"
)

// ErrBadRequest indicates a malformed request: missing upload, unreadable body, invalid JSON
type ErrBadRequest struct {
	Field   string
	Message string
}

func (e *ErrBadRequest) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates an upload over the configured size limit
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest  *ErrBadRequest
		tooLarge    *ErrPayloadTooLarge
		validation  *ranking.ValidationError
		extraction  *ingestion.ExtractionError
		analysisErr *nlp.AnalysisError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &analysisErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
