package schemas

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/resume"
	embedded "github.com/jonathan/resume-builder/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmptyDocument(t *testing.T) {
	data, err := json.Marshal(resume.New())
	require.NoError(t, err)

	assert.NoError(t, Validate(embedded.Resume, data))
}

func TestValidate_PopulatedDocument(t *testing.T) {
	ids := identity.NewSequence("t")
	doc, expID := resume.New().AddExperience(ids)
	doc, err := doc.UpdateExperience(expID, resume.SetJobTitle("Engineer"), resume.SetCompany("Acme"))
	require.NoError(t, err)
	doc, _, _ = doc.AddSkill("Go", "Languages", ids)
	doc, secID := doc.AddCustomSection(ids)
	doc, _, err = doc.AddCustomItem(secID, ids)
	require.NoError(t, err)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NoError(t, Validate(embedded.Resume, data))
}

func TestValidate_MissingEntityID(t *testing.T) {
	data := []byte(`{
		"contact": {}, "summary": "", "experience": [],
		"projects": [], "education": [], "languages": [], "customSections": [],
		"skills": [{"id": "", "name": "Go"}]
	}`)

	err := Validate(embedded.Resume, data)
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, embedded.Resume, validationErr.Schema)
	assert.NotEmpty(t, validationErr.Errors)
}

func TestValidate_ResponseSchemas(t *testing.T) {
	tests := []struct {
		schema string
		valid  string
		bad    string
	}{
		{embedded.Summary, `{"summary":"Builder of things."}`, `{"summary":""}`},
		{embedded.BulletPoints, `{"generatedBulletPoints":["Led X"]}`, `{"generatedBulletPoints":"Led X"}`},
		{embedded.Skills, `{"suggestedSkills":["Go","SQL"]}`, `{"skills":["Go"]}`},
		{embedded.ProjectDescriptions, `{"generatedDescriptions":["Built Y"]}`, `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			assert.NoError(t, Validate(tt.schema, []byte(tt.valid)))

			var validationErr *ValidationError
			assert.ErrorAs(t, Validate(tt.schema, []byte(tt.bad)), &validationErr)
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", []byte(`{}`))

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "missing.schema.json", loadErr.Path)
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(embedded.Summary, []byte(`{"summary":`))
	require.Error(t, err)

	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.json")
	data, err := json.Marshal(resume.New())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	assert.NoError(t, ValidateFile(embedded.Resume, path))

	err = ValidateFile(embedded.Resume, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}
