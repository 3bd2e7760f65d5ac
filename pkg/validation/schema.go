package validation

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var resumeSchemaJSON string

var resumeSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("validation: invalid resume schema: %v", err))
	}
	resumeSchema = schema
}

// ValidateResumeDocument checks a raw resume payload against the document
// schema. The schema deliberately leaves contact, styling_preferences and the
// keyword lists unconstrained: malformed values there are coerced to defaults
// during normalization instead of rejecting the whole document.
func ValidateResumeDocument(raw []byte) error {
	result, err := resumeSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
