package llm

import (
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// FieldType is the JSON type of an output field.
type FieldType string

const (
	FieldInteger    FieldType = "integer"
	FieldString     FieldType = "string"
	FieldStringList FieldType = "array<string>"
)

// OutputSchema describes the JSON object a model must reply with.
type OutputSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField defines a single field in the output.
type SchemaField struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	// Min and Max bound integer fields when set.
	Min *int
	Max *int
}

// Bounded returns a pointer to v for SchemaField.Min and SchemaField.Max.
func Bounded(v int) *int { return &v }

// RequiredNames returns the names of required fields in declaration order.
func (s OutputSchema) RequiredNames() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// PromptBlock renders the schema as instructions for the prompt.
func (s OutputSchema) PromptBlock() string {
	var sb strings.Builder
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range s.Fields {
		sb.WriteString(fmt.Sprintf("  %q: %s", field.Name, field.typeHint()))
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(s.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (f SchemaField) typeHint() string {
	switch f.Type {
	case FieldInteger:
		switch {
		case f.Min != nil && f.Max != nil:
			return fmt.Sprintf("integer %d-%d", *f.Min, *f.Max)
		case f.Min != nil:
			return fmt.Sprintf("integer >= %d", *f.Min)
		case f.Max != nil:
			return fmt.Sprintf("integer <= %d", *f.Max)
		}
		return "integer"
	case FieldStringList:
		return `["string"]`
	default:
		return `"string"`
	}
}

// JSONSchema renders the schema as a JSON Schema document for
// OpenAI-compatible response_format requests.
func (s OutputSchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		prop := map[string]any{}
		switch f.Type {
		case FieldInteger:
			prop["type"] = "integer"
			if f.Min != nil {
				prop["minimum"] = *f.Min
			}
			if f.Max != nil {
				prop["maximum"] = *f.Max
			}
		case FieldStringList:
			prop["type"] = "array"
			prop["items"] = map[string]any{"type": "string"}
		default:
			prop["type"] = "string"
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		props[f.Name] = prop
	}
	required := s.RequiredNames()
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// GeminiSchema renders the schema as a Gemini response schema. Gemini has no
// numeric bounds, so ranges are carried in the field descriptions.
func (s OutputSchema) GeminiSchema() *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Fields))
	for _, f := range s.Fields {
		desc := f.Description
		var prop *genai.Schema
		switch f.Type {
		case FieldInteger:
			if hint := f.typeHint(); hint != "integer" {
				desc = strings.TrimSpace(desc + " (" + hint + ")")
			}
			prop = &genai.Schema{Type: genai.TypeInteger}
		case FieldStringList:
			prop = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
		default:
			prop = &genai.Schema{Type: genai.TypeString}
		}
		prop.Description = desc
		props[f.Name] = prop
	}
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: s.Description,
		Properties:  props,
		Required:    s.RequiredNames(),
	}
}
