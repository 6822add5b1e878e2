package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// importSchema validates documents fed to `catalog import`. Volatile
// fields are optional on import; they default to static catalog values.
var importSchema = map[string]any{
	"type":     "object",
	"required": []any{"title", "description"},
	"properties": map[string]any{
		"id":            map[string]any{"type": "string"},
		"code":          map[string]any{"type": "string"},
		"title":         map[string]any{"type": "string", "minLength": 3},
		"description":   map[string]any{"type": "string", "minLength": 1},
		"url":           map[string]any{"type": "string"},
		"duration":      map[string]any{"type": "string"},
		"delivery_mode": map[string]any{"type": "string"},
		"category":      map[string]any{"type": "string"},
		"volatile": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"fee": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"amount":   map[string]any{"type": "number", "minimum": 0},
						"currency": map[string]any{"type": "string"},
					},
				},
				"next_intake":  map[string]any{"type": "object"},
				"requirements": map[string]any{"type": "object"},
			},
		},
	},
	"additionalProperties": false,
}

// ValidateImportDocument checks a raw JSON import document against the
// catalog schema and returns a single error listing every violation.
func ValidateImportDocument(doc []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(importSchema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validating import document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("invalid course document: %s", strings.Join(problems, "; "))
}
