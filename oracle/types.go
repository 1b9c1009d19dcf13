package oracle

import "encoding/json"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat asks the model for schema-constrained JSON output.
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *JSONSchemaSpec `json:"json_schema,omitempty"`
}

// JSONSchemaSpec wraps a schema for the json_schema response format.
type JSONSchemaSpec struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

// ChatResponse represents a response from the chat completions endpoint.
type ChatResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message Message `json:"message"`
}

// Schema is a closed object schema: the allowed fields of a structured
// answer and, for enum-like fields, the valid values.
type Schema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

// Property describes one schema field. Nullable fields marshal their
// type as ["<type>", "null"].
type Property struct {
	Type        string
	Nullable    bool
	Description string
	Enum        []string
	Items       *Property
}

// MarshalJSON emits the JSON-schema shape for a property.
func (p Property) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if p.Nullable {
		out["type"] = []string{p.Type, "null"}
	} else {
		out["type"] = p.Type
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		out["enum"] = p.Enum
	}
	if p.Items != nil {
		out["items"] = p.Items
	}
	return json.Marshal(out)
}

// Response is a freeform oracle answer with its extracted rationale.
type Response struct {
	Text      string
	Rationale string
}

// StructuredResponse is a schema-constrained oracle answer. The
// injected reasoning field is stripped out of Fields and surfaced as
// Rationale.
type StructuredResponse struct {
	Fields    map[string]interface{}
	Rationale string
}

// StringField returns a string-typed field, or "" when absent or of
// another type.
func (r *StructuredResponse) StringField(name string) string {
	s, _ := r.Fields[name].(string)
	return s
}

// StringSliceField returns a string-array field, skipping non-string
// elements.
func (r *StructuredResponse) StringSliceField(name string) []string {
	raw, ok := r.Fields[name].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
