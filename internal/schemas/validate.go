// Package schemas provides JSON Schema validation for the documents that cross the pipeline boundary.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Name identifies an embedded schema
type Name string

// Embedded schemas
const (
	TailoredContent Name = "tailored_content.schema.json"
	CanonicalResume Name = "canonical_resume.schema.json"
)

var (
	compiled   = make(map[Name]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Type    string
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
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Fields returns the distinct top-level field names that failed validation, in error order
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, fe := range ve.Errors {
		top := fe.Field
		if i := strings.Index(top, "."); i >= 0 {
			top = top[:i]
		}
		if !seen[top] {
			seen[top] = true
			fields = append(fields, top)
		}
	}
	return fields
}

// Validate validates a JSON document against an embedded schema
func Validate(name Name, document []byte) error {
	schema, err := load(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	return toValidationError(result)
}

func load(name Name) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[name]; ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(string(name))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Message: "schema not embedded", Cause: err}
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Message: "invalid schema", Cause: err}
	}
	compiled[name] = schema
	return schema, nil
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		// Missing properties are reported against their parent; name the property itself
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				if field == "" || field == "(root)" {
					field = prop
				} else {
					field = field + "." + prop
				}
			}
		}
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Type:    desc.Type(),
			Message: desc.Description(),
		})
	}

	return validationErr
}
