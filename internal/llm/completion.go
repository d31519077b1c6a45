package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DefaultSystemPrompt frames every completion for lesson planning.
	DefaultSystemPrompt = "You are a helpful assistant with expertise in education and lesson planning. Respond in Hebrew."

	defaultCompletionTokens      = 500
	defaultCompletionTemperature = 0.7
)

// Completer turns a prompt into text.
type Completer interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// CompletionOptions tune a TextCompleter.
type CompletionOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
}

// TextCompleter adapts a Provider to the Completer capability.
type TextCompleter struct {
	provider Provider
	opts     CompletionOptions
}

// NewCompleter wraps p. Zero options take the lesson-planning defaults.
func NewCompleter(p Provider, opts CompletionOptions) *TextCompleter {
	if opts.System == "" {
		opts.System = DefaultSystemPrompt
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultCompletionTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultCompletionTemperature
	}
	return &TextCompleter{provider: p, opts: opts}
}

// GenerateCompletion sends prompt as a single user message and returns the
// trimmed text of the reply. An empty reply is an *ErrInvalidResponse.
func (c *TextCompleter) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Generate(ctx, Request{
		System:      c.opts.System,
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(TextOf(resp.Content))
	if text == "" {
		return "", &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("empty completion")}
	}
	return text, nil
}

// TextOf returns the text of a schema-less response. Providers return raw
// text; content that happens to be a JSON string literal is unquoted.
func TextOf(content json.RawMessage) string {
	var s string
	if len(content) > 0 && content[0] == '"' && json.Unmarshal(content, &s) == nil {
		return s
	}
	return string(content)
}
