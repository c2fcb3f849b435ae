// Package config loads and validates extraction configuration documents.
// A configuration is user-supplied JSON declaring the fields to extract plus
// optional validation rules; it is checked against an embedded JSON schema
// before use so malformed documents fail fast with a precise error.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/docgrid/doc-parser/internal/common"
	"github.com/docgrid/doc-parser/internal/extract"
)

// DocumentConfig is the full per-session configuration document.
type DocumentConfig struct {
	DocumentType string                   `json:"document_type,omitempty"`
	Extraction   extract.ExtractionConfig `json:"extraction"`
	Validation   ValidationConfig         `json:"validation,omitempty"`
}

// ValidationConfig carries post-extraction business checks.
type ValidationConfig struct {
	ConfidenceThreshold float64                 `json:"confidence_threshold,omitempty"`
	BusinessRules       map[string]BusinessRule `json:"business_rules,omitempty"`
}

// BusinessRule names the required fields and limits for one scenario.
type BusinessRule struct {
	RequiredFields []string     `json:"required_fields,omitempty"`
	AmountLimits   *AmountLimit `json:"amount_limits,omitempty"`
	Checks         []string     `json:"validation_checks,omitempty"`
}

// AmountLimit bounds a monetary field.
type AmountLimit struct {
	MaxAmount float64 `json:"max_amount"`
	Currency  string  `json:"currency,omitempty"`
}

const schemaJSON = `{
  "type": "object",
  "required": ["extraction"],
  "additionalProperties": false,
  "properties": {
    "document_type": {"type": "string"},
    "ocr": {"type": "object"},
    "extraction": {
      "type": "object",
      "required": ["fields"],
      "additionalProperties": false,
      "properties": {
        "enable_adaptive_fields": {"type": "boolean"},
        "fields": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name"],
            "additionalProperties": false,
            "properties": {
              "name": {"type": "string", "minLength": 1},
              "pattern": {
                "anyOf": [
                  {"type": "string"},
                  {"type": "array", "items": {"type": "string"}}
                ]
              },
              "description": {"type": "string"},
              "entity_type": {"type": "string"},
              "regex_patterns": {"type": "array", "items": {"type": "string"}},
              "value_type_hint": {"type": "string"},
              "post_process": {"type": "string"}
            }
          }
        }
      }
    },
    "validation": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "confidence_threshold": {"type": "number", "minimum": 0},
        "business_rules": {"type": "object"}
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Parse validates data against the configuration schema and decodes it.
// enable_adaptive_fields defaults to true when absent.
func Parse(data []byte) (DocumentConfig, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return DocumentConfig{}, common.NewAppError("CONFIG_PARSE", "configuration is not valid JSON", err)
	}
	if err := schema.Validate(doc); err != nil {
		return DocumentConfig{}, common.NewAppError("CONFIG_SCHEMA", "configuration does not match schema", err)
	}

	var raw struct {
		DocumentType string `json:"document_type"`
		Extraction   struct {
			EnableAdaptiveFields *bool               `json:"enable_adaptive_fields"`
			Fields               []extract.FieldRule `json:"fields"`
		} `json:"extraction"`
		Validation ValidationConfig `json:"validation"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DocumentConfig{}, common.NewAppError("CONFIG_PARSE", "configuration decode failed", err)
	}

	adaptive := true
	if raw.Extraction.EnableAdaptiveFields != nil {
		adaptive = *raw.Extraction.EnableAdaptiveFields
	}
	return DocumentConfig{
		DocumentType: raw.DocumentType,
		Extraction: extract.ExtractionConfig{
			EnableAdaptiveFields: adaptive,
			Fields:               raw.Extraction.Fields,
		},
		Validation: raw.Validation,
	}, nil
}

// Load reads and parses a configuration file.
func Load(path string) (DocumentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DocumentConfig{}, common.NewAppError("CONFIG_READ", fmt.Sprintf("cannot read %s", path), err)
	}
	return Parse(data)
}

// Default is the minimal general-purpose configuration used when the caller
// supplies none: three keyword-anchored fields plus adaptive discovery.
func Default() DocumentConfig {
	return DocumentConfig{
		DocumentType: "general",
		Extraction: extract.ExtractionConfig{
			EnableAdaptiveFields: true,
			Fields: []extract.FieldRule{
				{Name: "Invoice Number", Pattern: extract.PatternList{"invoice number"}},
				{Name: "Amount", Pattern: extract.PatternList{"total"}, ValueTypeHint: "amount"},
				{Name: "Date", Pattern: extract.PatternList{"date"}, EntityType: "DATE", ValueTypeHint: "date"},
			},
		},
	}
}
