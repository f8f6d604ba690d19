package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction over a generative backend.
// Consumers call Generate with a Request and receive the raw reply content.
type Provider interface {
	// Generate sends a prompt to the backend and returns its reply.
	// When req.Schema is set the provider asks for output conforming to the
	// schema using its native structured output mechanism, and validates the
	// reply unless req.SkipValidation is set.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the backend.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Extraction is single-turn, so this
	// normally holds one user message carrying the document text.
	Messages []Message

	// Schema is the JSON Schema the reply should conform to.
	// When nil, the reply Content is the raw text.
	Schema *Schema

	// SkipValidation keeps the structured output request but returns the
	// reply unvalidated. Callers that classify malformed output themselves
	// (fenced JSON, missing keys) set this.
	SkipValidation bool

	// MaxTokens is the maximum number of tokens in the reply.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the backend.
type Schema struct {
	// Name identifies this schema. It is used as the schema name for
	// OpenAI and as the compiled-schema cache key, so two different
	// definitions must never share a name.
	Name string

	// Description is sent to the backend to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the backend's output.
type Response struct {
	// Content is the reply text. With a validated Schema it is a JSON
	// document; otherwise it is whatever the backend produced.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// validates reports whether the provider must check the reply against
// the request schema before returning it.
func (r Request) validates() bool {
	return r.Schema != nil && !r.SkipValidation
}
