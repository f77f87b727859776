package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResume = `{
  "name": "Jane Smith",
  "contact": {"email": "jane@example.com", "phone": "555-123-4567"},
  "education": [{"institution": "Stanford University"}, {"degree": "PhD in Computer Science"}],
  "experience": [{"company": "Google", "position": "Data Scientist", "duration": "2019-2023"}],
  "skills": ["machine learning", "python"],
  "certifications": [],
  "projects": []
}`

func TestValidate_ResumeEntities(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantField string
	}{
		{name: "valid record", document: validResume},
		{
			name:     "empty record",
			document: `{"name":null,"contact":{"email":null,"phone":null},"education":[],"experience":[],"skills":[],"certifications":[],"projects":[]}`,
		},
		{
			name:      "null list",
			document:  `{"name":null,"contact":{"email":null,"phone":null},"education":[],"experience":[],"skills":null,"certifications":[],"projects":[]}`,
			wantField: "skills",
		},
		{
			name:      "duplicate skills",
			document:  `{"name":null,"contact":{"email":null,"phone":null},"education":[],"experience":[],"skills":["python","python"],"certifications":[],"projects":[]}`,
			wantField: "skills",
		},
		{
			name:      "experience without company",
			document:  `{"name":null,"contact":{"email":null,"phone":null},"education":[],"experience":[{"company":"","position":null,"duration":null}],"skills":[],"certifications":[],"projects":[]}`,
			wantField: "experience.0.company",
		},
		{
			name:      "missing contact",
			document:  `{"name":null,"education":[],"experience":[],"skills":[],"certifications":[],"projects":[]}`,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ResumeEntities, []byte(tt.document))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			fields := make([]string, 0, len(validationErr.Errors))
			for _, fe := range validationErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidate_JobDescription(t *testing.T) {
	assert.NoError(t, Validate(JobDescription, []byte(`{"title":"Data Scientist","description":"ML role","requirements":["Python"]}`)))

	err := Validate(JobDescription, []byte(`{"title":"Data Scientist","requirements":[]}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "description")
}

func TestValidateParseResult(t *testing.T) {
	valid := `{"success": true, "data": ` + validResume + `, "compatibility": {"overall_score": 0.55, "tfidf_similarity": 0.33, "semantic_similarity": 0.64, "skill_match": 0.67}, "timestamp": "2024-05-01T10:00:00.123Z"}`
	assert.NoError(t, ValidateParseResult([]byte(valid)))

	unscored := `{"data": ` + validResume + `, "compatibility": null, "timestamp": "2024-05-01T10:00:00Z"}`
	assert.NoError(t, ValidateParseResult([]byte(unscored)))

	outOfRange := `{"data": ` + validResume + `, "compatibility": {"overall_score": 1.5, "tfidf_similarity": 0, "semantic_similarity": 0, "skill_match": 0}, "timestamp": "2024-05-01T10:00:00Z"}`
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateParseResult([]byte(outOfRange)), &validationErr)

	badData := `{"data": {"name": 42}, "timestamp": "2024-05-01T10:00:00Z"}`
	require.ErrorAs(t, ValidateParseResult([]byte(badData)), &validationErr)
	for _, fe := range validationErr.Errors {
		assert.Contains(t, fe.Field, "data")
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	record := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(record, []byte(validResume), 0o600))
	assert.NoError(t, ValidateFile(record))

	envelope := filepath.Join(dir, "result.json")
	require.NoError(t, os.WriteFile(envelope, []byte(`{"data": {"skills": []}, "timestamp": "2024-05-01T10:00:00Z"}`), 0o600))
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateFile(envelope), &validationErr)

	err := ValidateFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s, err := Load(name)
			require.NoError(t, err)
			assert.NotNil(t, s)

			again, err := Load(name)
			require.NoError(t, err)
			assert.Same(t, s, again)
		})
	}

	_, err := Load("no_such_schema")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "unknown schema")
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type":"object","required":["title"]}`), 0o600))
	okPath := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(okPath, []byte(`{"title":"x"}`), 0o600))
	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{}`), 0o600))

	assert.NoError(t, ValidateJSON(schemaPath, okPath))

	var validationErr *ValidationError
	require.ErrorAs(t, ValidateJSON(schemaPath, badPath), &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)

	err := ValidateJSON(filepath.Join(dir, "nope.json"), okPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","properties":{"score":{"type":"number","maximum":1}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"score":0.5}`))

	var validationErr *ValidationError
	require.ErrorAs(t, ValidateJSONString(schema, `{"score":2}`), &validationErr)
	assert.Equal(t, "score", validationErr.Errors[0].Field)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, ValidateJSONString(`{"type": 12}`, `{}`), &loadErr)
}
