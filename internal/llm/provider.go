package llm

import (
	"context"
	"encoding/json"
)

// Provider abstracts a text-generation vendor. Callers build a Request and
// get structured or free-form output back; everything vendor-specific stays
// behind this interface.
type Provider interface {
	// Generate sends the request and returns the model output. When
	// Request.Schema is set the provider uses its native structured-output
	// mechanism and the returned Content is schema-validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request is one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation so far. Interview feedback sends the
	// whole transcript rendered into a single user message; mentor chat and
	// interviewer turns send multi-turn history.
	Messages []Message

	// Schema, when non-nil, constrains the response to JSON matching it.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]; zero means deterministic.
	Temperature float64
}

// Message is one conversation turn as the vendor sees it.
type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema to the vendor (tool name / schema name).
	Name string

	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response is the model output plus accounting.
type Response struct {
	// Content is validated JSON when the request carried a Schema,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is per-request token accounting.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a plain string, stripping one level
// of JSON string quoting if present.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}
