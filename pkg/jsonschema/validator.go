// Package jsonschema validates JSON response bodies against a JSON Schema.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile compiles a schema given as JSON text.
func Compile(source string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(source)); err != nil {
		return nil, errors.Wrap(err, "invalid schema")
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, errors.Wrap(err, "invalid schema")
	}
	return &Schema{schema: schema}, nil
}

// CompileFile compiles the schema stored at path.
func CompileFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}
	schema, err := Compile(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}
	return schema, nil
}

// Validate checks body against the schema. A body that violates the schema
// yields ValidationErrors with one entry per failing location.
func (s *Schema) Validate(body []byte) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}

	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return flatten(validationErr)
	}
	return ValidationErrors{err}
}

// Validate compiles schemaSource and checks body against it.
func Validate(body []byte, schemaSource string) error {
	schema, err := Compile(schemaSource)
	if err != nil {
		return err
	}
	return schema.Validate(body)
}

// flatten collects the leaf causes; intermediate nodes only repeat them.
func flatten(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("validation error at %s: %s", location, err.Message)}
	}
	var errs ValidationErrors
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
