package staging

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// collectionSchema is the engine's JsonCollection document shape.
// Documents carry exactly an id and its contents.
const collectionSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "contents"],
    "additionalProperties": false,
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "contents": {"type": "string", "minLength": 1}
    }
  }
}`

// maxReportedErrors caps schema violations quoted in an error.
const maxReportedErrors = 5

// Validator checks encoded corpora against the collection schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the collection schema.
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(collectionSchema))
	if err != nil {
		return nil, fmt.Errorf("invalid collection schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks an encoded corpus. Ids must also be unique.
func (v *Validator) Validate(data []byte, records []domain.Record) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCorpusSchema, err)
	}
	if !result.Valid() {
		var errs []string
		for i, desc := range result.Errors() {
			if i == maxReportedErrors {
				errs = append(errs, fmt.Sprintf("and %d more", len(result.Errors())-i))
				break
			}
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("%w: %s", domain.ErrCorpusSchema, strings.Join(errs, "; "))
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", domain.ErrCorpusSchema, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}
