// Package llm adapts hosted and local chat-completion APIs to one
// Provider interface used by the lesson-planning assistant.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one chat request to a model. Implementations exist per
// vendor; retry and logging are layered on as decorators.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a chat turn sequence plus generation settings.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON matching it. Providers with native
	// structured output use it directly; the rest receive it in the
	// system prompt and their reply is validated afterwards.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Message is one chat turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the tool name for
// Anthropic and the response format name for OpenAI, so keep it
// kebab-case, e.g. "lesson-field-updates".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model reply. Content is validated JSON when the request
// carried a Schema and raw text otherwise.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end", "max_tokens" or "error".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
