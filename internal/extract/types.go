// Package extract implements the cascading field-extraction engine: it turns
// OCR-recognized document text plus a declarative field schema into typed,
// confidence-scored fields, optionally supplemented by schema-free adaptive
// discovery.
package extract

import "encoding/json"

// PatternList is a field rule's literal keyword anchors. Configuration JSON
// may supply either a single string or an array of strings.
type PatternList []string

func (p *PatternList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*p = nil
		} else {
			*p = PatternList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*p = many
	return nil
}

// FieldRule declares how to find one named value in document text.
// At least one of Pattern, RegexPatterns, or EntityType should be set,
// otherwise the rule can never yield a value.
type FieldRule struct {
	Name          string      `json:"name"`
	Pattern       PatternList `json:"pattern,omitempty"`
	Description   string      `json:"description,omitempty"`
	EntityType    string      `json:"entity_type,omitempty"`
	RegexPatterns []string    `json:"regex_patterns,omitempty"`
	ValueTypeHint string      `json:"value_type_hint,omitempty"`
	PostProcess   string      `json:"post_process,omitempty"`
}

// ExtractionConfig holds the declared field rules for one processing session.
// Declaration order is output order. The engine never mutates it; callers
// replace it wholesale when configuration changes.
type ExtractionConfig struct {
	EnableAdaptiveFields bool        `json:"enable_adaptive_fields"`
	Fields               []FieldRule `json:"fields"`
}

// BoundingBox is advisory OCR geometry: left, top, width, height in pixels.
type BoundingBox struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExtractedField is one resolved field. A nil Value with confidence 0 is the
// universal "could not extract" signal. BoundingBox is currently always nil
// because byte-offset-to-bbox mapping is not implemented.
type ExtractedField struct {
	Name        string       `json:"name"`
	Value       *string      `json:"value"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"bounding_box"`
}

// OCRMeta is the advisory side channel supplied by the OCR collaborator.
// The engine threads it through without consulting per-token confidence;
// OCR confidence and field confidence stay independent.
type OCRMeta struct {
	Confidence float64
	Boxes      []BoundingBox
}

// Strategy confidences, on the 0-100 scale.
const (
	confidenceRegex   = 90
	confidenceKeyword = 85
	confidenceEntity  = 80
)

func field(name, value string, conf float64) ExtractedField {
	v := value
	return ExtractedField{Name: name, Value: &v, Confidence: conf}
}
