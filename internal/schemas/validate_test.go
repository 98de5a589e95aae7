package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	schemafiles "github.com/jonathan/skillbridge/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "age"],
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validateString(schema, doc string) error {
	return validate("(test schema)", gojsonschema.NewStringLoader(schema), gojsonschema.NewStringLoader(doc))
}

func TestValidate_MissingField(t *testing.T) {
	err := validateString(personSchema, `{"name": "Ada"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, validationErr.Summary(), "age")
}

func TestValidate_WrongType(t *testing.T) {
	err := validateString(personSchema, `{"name": "Ada", "age": "old"}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "age", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Error(), "validation failed")
	assert.Contains(t, validationErr.Summary(), "age: ")
}

func TestValidate_BadSchema(t *testing.T) {
	err := validateString(`{"type": 12}`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "(test schema)", loadErr.Path)
	assert.NoError(t, validateString(personSchema, `{"name": "Ada", "age": 36}`))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "report.json", `{
		"generated_at": "2026-01-02T03:04:05Z",
		"skill_gap": {
			"overall_score": 95, "skills_score": 90, "experience_score": 92, "education_score": 88,
			"strengths": ["Go"], "missing_skills": [], "gap_summary": "Strong match."
		},
		"recommendation": null
	}`)
	assert.NoError(t, ValidateFile(schemafiles.Report, valid))

	invalid := writeFile(t, dir, "bad.json", `{"generated_at": "2026-01-02T03:04:05Z"}`)
	var validationErr *ValidationError
	require.ErrorAs(t, ValidateFile(schemafiles.Report, invalid), &validationErr)

	err := ValidateFile(schemafiles.Report, filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "not found")
}

func TestValidateEmbedded_AnalysisReply(t *testing.T) {
	valid := `{
		"overall_score": 62, "skills_score": 55.0, "experience_score": 70, "education_score": 80,
		"strengths": ["Python", {"name": "SQL", "importance": "high"}],
		"missing_skills": ["Docker"],
		"gap_summary": "Needs containers."
	}`
	assert.NoError(t, ValidateEmbedded(schemafiles.AnalysisReply, []byte(valid)))

	missingScore := `{
		"overall_score": 62, "skills_score": 55, "experience_score": 70,
		"strengths": [], "missing_skills": ["Docker"]
	}`
	err := ValidateEmbedded(schemafiles.AnalysisReply, []byte(missingScore))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Summary(), "education_score")
}

func TestValidateEmbedded_Report(t *testing.T) {
	report := `{
		"generated_at": "2026-01-02T03:04:05Z",
		"skill_gap": {
			"overall_score": 62, "skills_score": 55, "experience_score": 70, "education_score": 80,
			"strengths": ["Python"], "missing_skills": ["Docker"], "gap_summary": "Needs containers."
		},
		"recommendation": null
	}`
	assert.NoError(t, ValidateEmbedded(schemafiles.Report, []byte(report)))

	badScore := `{
		"generated_at": "2026-01-02T03:04:05Z",
		"skill_gap": {
			"overall_score": 162, "skills_score": 55, "experience_score": 70, "education_score": 80,
			"strengths": [], "missing_skills": ["Docker"], "gap_summary": "x"
		},
		"recommendation": null
	}`
	assert.Error(t, ValidateEmbedded(schemafiles.Report, []byte(badScore)))
}
