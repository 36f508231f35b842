package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// flowSchema describes the accepted shape of a catalog file.
// Cross-step rules (unique ids, one step per input kind) live in New.
const flowSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["flow"],
  "properties": {
    "flow": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1, "pattern": "^[A-Za-z0-9_-]+$"},
          "type": {"enum": ["welcome", "ranked", "balance", "multi_select", "image_grid", "dual_grid", "free_text", "binary", "contact", "review"]},
          "step": {"type": "integer", "minimum": 0},
          "section": {"type": "string"},
          "title": {"type": "string"},
          "subtitle": {"type": "string"},
          "validation_message": {"type": "string"},
          "options": {"type": "array", "items": {"type": "string"}},
          "sort_options": {"type": "boolean"},
          "max_picks": {"type": "integer", "minimum": 1, "maximum": 3},
          "default": {"type": "integer", "minimum": 0, "maximum": 100},
          "presets": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label", "shelving"],
              "properties": {
                "label": {"type": "string"},
                "shelving": {"type": "integer", "minimum": 0, "maximum": 100}
              }
            }
          },
          "images": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label"],
              "properties": {"label": {"type": "string"}, "image": {"type": "string"}}
            }
          },
          "image_dir": {"type": "string"},
          "categories": {
            "type": "array",
            "minItems": 2,
            "maxItems": 2,
            "items": {
              "type": "object",
              "required": ["id", "heading"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "heading": {"type": "string"},
                "review_label": {"type": "string"},
                "image_category": {"type": "string"},
                "finishes": {"type": "array", "items": {"type": "string"}},
                "styles": {"type": "array", "items": {"type": "string"}}
              }
            }
          },
          "max": {"type": "integer", "minimum": 1},
          "placeholder": {"type": "string"},
          "yes": {"type": "string"},
          "no": {"type": "string"},
          "prompt_title": {"type": "string"},
          "email": {"type": "string"},
          "phone": {"type": "string"},
          "methods": {"type": "array", "minItems": 1, "items": {"type": "string"}},
          "default_method": {"type": "string"},
          "headline": {"type": "array", "items": {"type": "string"}},
          "subtext": {"type": "string"},
          "cta": {"type": "string"}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(flowSchema)

// validateDocument checks a decoded catalog document against flowSchema
func validateDocument(doc interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(msgs, "; "))
}
