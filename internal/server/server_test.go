package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/ingestion"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/nlp"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/ranking"
	"github.com/jonathan/resume-parser/internal/server/middleware"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
	"github.com/jonathan/resume-parser/internal/types"
	"github.com/jonathan/resume-parser/internal/vocab"
)

const jobJSON = `{"title":"Data Scientist","description":"Looking for a Python expert with ML experience","requirements":["Python","Machine Learning","Data Analysis"]}`

// newTestServer creates a server backed by the real pipeline with the local embedder
func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	v := vocab.New(
		[]string{"python", "machine learning", "docker"},
		[]string{"Google", "Amazon"},
	)
	scorer, err := ranking.NewScorer(llm.NewLocalEmbedder(0))
	require.NoError(t, err)
	svc := pipeline.NewService(ingestion.NewExtractor(nil), parsing.NewEngine(nlp.NewRuleAnalyzer(), v), nil, scorer)

	if cfg.TempDir == "" {
		cfg.TempDir = t.TempDir()
	}
	s := New(svc, cfg, nil)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func postUpload(t *testing.T, s *Server, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, "/parse-resume", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	return resp
}

func assertTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "uploads must not be left on disk")
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
	assert.False(t, resp.Timestamp.IsZero())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestParseResume_Success(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Config{TempDir: dir})

	w := postUpload(t, s, "resume.txt", []byte("John Doe\njohn.doe@example.com\nExperienced in Python and Machine Learning."), nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Nil(t, resp["compatibility"])
	assert.NotEmpty(t, resp["timestamp"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, "John Doe", data["name"])
	assert.Equal(t, "john.doe@example.com", data["contact"].(map[string]any)["email"])
	assert.Equal(t, []any{"Machine Learning", "Python"}, data["skills"])
	assert.Equal(t, []any{}, data["certifications"])

	assertTempDirEmpty(t, dir)
}

func TestParseResume_WithJobDescription(t *testing.T) {
	s := newTestServer(t, Config{})

	w := postUpload(t, s, "resume.txt", []byte("Jane Smith\nPython and Machine Learning."), map[string]string{"job_description": jobJSON})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Compatibility)
	assert.InDelta(t, 2.0/3.0, resp.Compatibility.SkillMatch, 1e-9)
}

func TestParseResume_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		status   int
	}{
		{name: "missing file", status: http.StatusBadRequest},
		{name: "unsupported format", filename: "resume.doc", content: []byte("x"), status: http.StatusUnprocessableEntity},
		{name: "corrupt pdf", filename: "resume.pdf", content: []byte("not a pdf"), status: http.StatusUnprocessableEntity},
		{name: "empty file", filename: "resume.txt", content: []byte{}, status: http.StatusUnprocessableEntity},
		{name: "invalid job json", filename: "resume.txt", content: []byte("John Doe"), fields: map[string]string{"job_description": "{not json"}, status: http.StatusBadRequest},
		{name: "job missing requirements", filename: "resume.txt", content: []byte("John Doe"), fields: map[string]string{"job_description": `{"title":"x","description":"y"}`}, status: http.StatusBadRequest},
		{name: "invalid utf-8", filename: "resume.txt", content: []byte{0xff, 0xfe}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := newTestServer(t, Config{TempDir: dir})

			w := postUpload(t, s, tt.filename, tt.content, tt.fields)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			decodeError(t, w)
			assertTempDirEmpty(t, dir)
		})
	}
}

func TestParseResume_NotMultipart(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodPost, "/parse-resume", strings.NewReader(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	decodeError(t, w)
}

func TestParseResume_TooLarge(t *testing.T) {
	dir := t.TempDir()
	s := newTestServer(t, Config{TempDir: dir, MaxUploadBytes: 16})

	w := postUpload(t, s, "resume.txt", bytes.Repeat([]byte("a"), 4096), nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	decodeError(t, w)
	assertTempDirEmpty(t, dir)
}

func TestMatchResume(t *testing.T) {
	s := newTestServer(t, Config{})
	body := `{"resume_data": {"skills": ["python3", "ml"], "experience": [{"company": "Google", "position": "Data Scientist", "duration": null}]}, "job_description": ` + jobJSON + `}`

	req := httptest.NewRequest(http.MethodPost, "/match-resume", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Compatibility)
	assert.InDelta(t, 2.0/3.0, resp.Compatibility.SkillMatch, 1e-9)
	assert.GreaterOrEqual(t, resp.Compatibility.OverallScore, 0.0)
	assert.LessOrEqual(t, resp.Compatibility.OverallScore, 1.0)
}

func TestMatchResume_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid json", body: `{`, status: http.StatusBadRequest},
		{name: "missing resume", body: `{"job_description": ` + jobJSON + `}`, status: http.StatusBadRequest},
		{name: "missing job", body: `{"resume_data": {"skills": []}}`, status: http.StatusBadRequest},
		{name: "job without title", body: `{"resume_data": {"skills": []}, "job_description": {"description": "d", "requirements": []}}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Config{})
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/match-resume", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			decodeError(t, w)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/parse-resume", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSMiddleware_OPTIONS(t *testing.T) {
	s := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/parse-resume", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  2,
		DefaultWindow: time.Hour,
	}})
	handler := s.Handler()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/match-resume", strings.NewReader(`{`))
		req.RemoteAddr = "203.0.113.7:4242"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusBadRequest, send().Code)
	second := send()
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "2", second.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := send()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	decodeError(t, third)

	// health checks are never limited
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, Config{ShutdownTimeout: time.Second})
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// stubService returns canned results so handler mapping can be tested in isolation
type stubService struct {
	err error
}

func (s *stubService) ParseDocument(_ context.Context, _ *ingestion.Document, _ *types.JobDescription) (*types.ParseResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.ParseResult{Data: types.NewResumeEntities(), Timestamp: time.Now()}, nil
}

func (s *stubService) Match(_ context.Context, _ *types.ResumeEntities, _ *types.JobDescription) (*types.MatchResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.MatchResult{Compatibility: &types.CompatibilityScore{}, Timestamp: time.Now()}, nil
}

func TestParseResume_AnalysisErrorIs500(t *testing.T) {
	dir := t.TempDir()
	s := New(&stubService{err: &nlp.AnalysisError{Message: "model failure"}}, Config{TempDir: dir}, nil)
	t.Cleanup(s.rateLimiter.Stop)

	w := postUpload(t, s, "resume.txt", []byte("John Doe"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, resp.Error, "model failure")
	assertTempDirEmpty(t, dir)
}
