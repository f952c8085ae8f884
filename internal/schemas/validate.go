// Package schemas provides JSON Schema validation for model replies and stored documents.
package schemas

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/career-coach/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed")
	if ve.Schema != "" {
		sb.WriteString(" against ")
		sb.WriteString(ve.Schema)
	}
	sb.WriteString(":\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// load compiles an embedded schema once and caches it.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}

	data, err := fs.ReadFile(embedded.FS, name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not embedded", Cause: err}
	}

	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema failed to compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateDocument validates an in-memory value (map, slice or struct) against an embedded schema.
func ValidateDocument(schemaName string, doc any) error {
	schema, err := load(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}

	return toValidationError(schemaName, result)
}

// ValidateResumeAnalysis checks a decoded model reply for the resume analysis shape.
func ValidateResumeAnalysis(obj map[string]any) error {
	return ValidateDocument(embedded.ResumeAnalysis, obj)
}

// ValidateInterviewFeedback checks a decoded model reply for the interview feedback shape.
func ValidateInterviewFeedback(obj map[string]any) error {
	return ValidateDocument(embedded.InterviewFeedback, obj)
}

// ValidateRoadmap checks a roadmap document before it is stored.
func ValidateRoadmap(doc any) error {
	return ValidateDocument(embedded.Roadmap, doc)
}

func toValidationError(schemaName string, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: schemaName,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
