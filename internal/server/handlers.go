package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/types"
)

// multipart overhead allowed on top of the document size limit
const formOverhead = 1 << 20

// ParseResponse is the body of a successful /parse-resume call
type ParseResponse struct {
	Success       bool                      `json:"success"`
	Data          *types.ResumeEntities     `json:"data"`
	Compatibility *types.CompatibilityScore `json:"compatibility"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// MatchRequest is the body of a /match-resume call
type MatchRequest struct {
	ResumeData     *types.ResumeEntities `json:"resume_data"`
	JobDescription *types.JobDescription `json:"job_description"`
}

// MatchResponse is the body of a successful /match-resume call
type MatchResponse struct {
	Success       bool                      `json:"success"`
	Compatibility *types.CompatibilityScore `json:"compatibility"`
	Timestamp     time.Time                 `json:"timestamp"`
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleParseResume parses an uploaded resume and optionally scores it against a job description
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, r, &ErrPayloadTooLarge{Limit: s.config.MaxUploadBytes})
			return
		}
		s.errorResponse(w, r, &ErrBadRequest{Message: "invalid multipart form: " + err.Error()})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Field: "file", Message: "a resume file is required"})
		return
	}
	defer file.Close()

	if header.Size > s.config.MaxUploadBytes {
		s.errorResponse(w, r, &ErrPayloadTooLarge{Limit: s.config.MaxUploadBytes})
		return
	}

	job, err := jobFromForm(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	format, err := ingestion.DetectFormat(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	data, err := s.spool(file, header.Filename)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	doc := &ingestion.Document{Filename: header.Filename, Format: format, Data: data}
	result, err := s.service.ParseDocument(r.Context(), doc, job)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Debug("resume parsed",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("filename", header.Filename),
		zap.Int("skills", len(result.Data.Skills)),
		zap.Bool("scored", result.Compatibility != nil),
	)
	s.jsonResponse(w, http.StatusOK, ParseResponse{
		Success:       true,
		Data:          result.Data,
		Compatibility: result.Compatibility,
		Timestamp:     result.Timestamp,
	})
}

// spool writes the upload to a uniquely named temporary file and reads it
// back. The file is removed before spool returns, whatever the outcome.
func (s *Server) spool(src multipart.File, filename string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	tmp, err := os.CreateTemp(s.config.TempDir, "upload-"+uuid.NewString()+"-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove temp file", zap.String("path", tmp.Name()), zap.Error(err))
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}
	return io.ReadAll(tmp)
}

// jobFromForm reads the optional job_description form field (or query parameter)
func jobFromForm(r *http.Request) (*types.JobDescription, error) {
	raw := strings.TrimSpace(r.FormValue("job_description"))
	if raw == "" {
		return nil, nil
	}
	var job types.JobDescription
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, &ErrBadRequest{Field: "job_description", Message: "must be a JSON object: " + err.Error()}
	}
	return &job, nil
}

// handleMatchResume scores parsed resume data against a job description
func (s *Server) handleMatchResume(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, formOverhead))
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, r, &ErrBadRequest{Message: "Invalid request body: " + err.Error()})
		return
	}
	if req.ResumeData == nil {
		s.errorResponse(w, r, &ErrBadRequest{Field: "resume_data", Message: "is required"})
		return
	}
	if req.JobDescription == nil {
		s.errorResponse(w, r, &ErrBadRequest{Field: "job_description", Message: "is required"})
		return
	}

	result, err := s.service.Match(r.Context(), req.ResumeData, req.JobDescription)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, MatchResponse{
		Success:       true,
		Compatibility: result.Compatibility,
		Timestamp:     result.Timestamp,
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: s.now(),
	})
}
