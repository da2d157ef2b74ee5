package jsonschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSchema = `{
	"type": "object",
	"properties": {
		"name": { "type": "string" },
		"age": { "type": "integer", "minimum": 0 }
	},
	"required": ["name"]
}`

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		valid      bool
		violations int
	}{
		{name: "Valid object", body: `{"name": "John", "age": 30}`, valid: true},
		{name: "Missing required property", body: `{"age": 30}`, violations: 1},
		{name: "Wrong type", body: `{"name": 1}`, violations: 1},
		{name: "Two violations", body: `{"name": 1, "age": -1}`, violations: 2},
		{name: "Not an object", body: `[]`, violations: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.body), userSchema)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var violations ValidationErrors
			require.True(t, errors.As(err, &violations), "unexpected error: %v", err)
			assert.Len(t, violations, tt.violations)
			assert.Contains(t, err.Error(), "validation error at")
		})
	}
}

func TestValidate_InvalidInput(t *testing.T) {
	err := Validate([]byte(`{"name":`), userSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")

	_, err = Compile(`{"type": 12}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema")

	_, err = Compile(`not json`)
	assert.Error(t, err)
}

func TestCompileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(userSchema), 0o600))

	schema, err := CompileFile(path)
	require.NoError(t, err)
	assert.NoError(t, schema.Validate([]byte(`{"name":"x"}`)))
	assert.Error(t, schema.Validate([]byte(`{}`)))

	_, err = CompileFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{errors.New("a"), errors.New("b")}
	assert.Equal(t, "a; b", errs.Error())
	assert.Equal(t, "", ValidationErrors{}.Error())
}
