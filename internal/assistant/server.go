// Package assistant exposes the AI tools used by the lesson planner as a
// named tool server: generate_suggestion and update_lesson_field.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/lessonroom/internal/llm"
	"github.com/abhisek/lessonroom/internal/logger"
)

// ServerName is the name callers address the tool server by.
const ServerName = "ai-server"

// Tool names.
const (
	ToolGenerateSuggestion = "generate_suggestion"
	ToolUpdateLessonField  = "update_lesson_field"
)

// Code classifies a failed tool call.
type Code string

const (
	CodeUnknownServer    Code = "unknown_server"
	CodeUnknownTool      Code = "unknown_tool"
	CodeInvalidArguments Code = "invalid_arguments"
	CodeRateLimited      Code = "rate_limited"
	CodeQuotaExceeded    Code = "quota_exceeded"
	CodeUnavailable      Code = "unavailable"
	CodeInvalidResponse  Code = "invalid_response"
	CodeInternal         Code = "internal"
)

// Content is one block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of a tool call: content blocks, or an error and
// its code.
type Result struct {
	Content []Content `json:"content,omitempty"`
	Error   string    `json:"error,omitempty"`
	Code    Code      `json:"code,omitempty"`
}

// IsError reports whether the call failed.
func (r Result) IsError() bool { return r.Error != "" }

// Text returns the first text block, or "".
func (r Result) Text() string {
	for _, c := range r.Content {
		if c.Type == "text" {
			return c.Text
		}
	}
	return ""
}

func textResult(s string) Result {
	return Result{Content: []Content{{Type: "text", Text: s}}}
}

func errorResult(code Code, format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...), Code: code}
}

// Invoker calls a tool on a named server.
type Invoker interface {
	InvokeTool(ctx context.Context, serverName, toolName string, args any) Result
}

// Unavailable is an Invoker used when no provider is configured. Every
// call fails with CodeUnavailable and reason.
type Unavailable struct {
	Reason string
}

func (u Unavailable) InvokeTool(context.Context, string, string, any) Result {
	return errorResult(CodeUnavailable, "%s", u.Reason)
}

// ToolInfo describes a tool for listing.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used for both tools.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   500,
		Temperature: 0.7,
	}
}

// Server implements the lesson planner's AI tools on top of an LLM
// provider.
type Server struct {
	provider  llm.Provider
	completer llm.Completer
	cfg       Config
	log       *logger.Logger
}

var _ Invoker = (*Server)(nil)

// NewServer creates a tool server. log may be nil.
func NewServer(provider llm.Provider, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		provider: provider,
		completer: llm.NewCompleter(provider, llm.CompletionOptions{
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}),
		cfg: cfg,
		log: log.With("component", "assistant"),
	}
}

// ListTools describes the tools this server offers.
func (s *Server) ListTools() []ToolInfo {
	return []ToolInfo{
		{
			Name:        ToolGenerateSuggestion,
			Description: "Generate an AI suggestion for lesson plan content",
			InputSchema: generateSuggestionArgs.Definition,
		},
		{
			Name:        ToolUpdateLessonField,
			Description: "Turn a free-text request into lesson plan field updates",
			InputSchema: updateLessonFieldArgs.Definition,
		},
	}
}

// InvokeTool runs toolName on serverName with args, which must marshal to
// a JSON object. Failures are reported in the Result, never as a panic.
func (s *Server) InvokeTool(ctx context.Context, serverName, toolName string, args any) Result {
	if serverName != ServerName {
		return errorResult(CodeUnknownServer, "unknown server: %s", serverName)
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return errorResult(CodeInvalidArguments, "encode arguments: %v", err)
	}

	switch toolName {
	case ToolGenerateSuggestion:
		if err := llm.ValidateJSON(generateSuggestionArgs, raw); err != nil {
			return errorResult(CodeInvalidArguments, "invalid arguments for %s: %v", toolName, err)
		}
		var in suggestionInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return errorResult(CodeInvalidArguments, "invalid arguments for %s: %v", toolName, err)
		}
		return s.generateSuggestion(ctx, in)

	case ToolUpdateLessonField:
		if err := llm.ValidateJSON(updateLessonFieldArgs, raw); err != nil {
			return errorResult(CodeInvalidArguments, "invalid arguments for %s: %v", toolName, err)
		}
		var in fieldUpdateInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return errorResult(CodeInvalidArguments, "invalid arguments for %s: %v", toolName, err)
		}
		return s.updateLessonField(ctx, in)
	}
	return errorResult(CodeUnknownTool, "unknown tool: %s", toolName)
}

type suggestionInput struct {
	Context      string `json:"context"`
	Type         string `json:"type"`
	CurrentValue string `json:"currentValue"`
	Message      string `json:"message"`
}

func (s *Server) generateSuggestion(ctx context.Context, in suggestionInput) Result {
	ctx = llm.WithPurpose(ctx, llm.PurposeSuggestion)
	prompt := buildSuggestionPrompt(in.Type, in.Context, in.CurrentValue, in.Message)

	text, err := s.completer.GenerateCompletion(ctx, prompt)
	if err != nil {
		s.log.Warn("suggestion failed", "type", in.Type, "error", err)
		return providerError(err)
	}
	return textResult(text)
}

type fieldUpdateInput struct {
	Message       string            `json:"message"`
	FieldLabels   map[string]string `json:"fieldLabels"`
	CurrentValues map[string]string `json:"currentValues"`
}

// FieldUpdate is one change proposed by update_lesson_field.
type FieldUpdate struct {
	FieldToUpdate string `json:"fieldToUpdate"`
	UserResponse  string `json:"userResponse"`
	NewValue      string `json:"newValue"`
}

type fieldUpdatesOutput struct {
	Updates []FieldUpdate `json:"updates"`
}

func (s *Server) updateLessonField(ctx context.Context, in fieldUpdateInput) Result {
	ctx = llm.WithPurpose(ctx, llm.PurposeFieldUpdate)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: fieldUpdateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFieldUpdateMessage(in.Message, in.FieldLabels, in.CurrentValues)},
		},
		Schema:      FieldUpdatesSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.Warn("field update failed", "error", err)
		return providerError(err)
	}

	var out fieldUpdatesOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return errorResult(CodeInvalidResponse, "parse field updates: %v", err)
	}
	if out.Updates == nil {
		out.Updates = []FieldUpdate{}
	}
	text, err := json.Marshal(out.Updates)
	if err != nil {
		return errorResult(CodeInternal, "encode field updates: %v", err)
	}
	return textResult(string(text))
}

func providerError(err error) Result {
	var quotaErr *llm.ErrQuotaExceeded
	var rateErr *llm.ErrRateLimit
	var unavailErr *llm.ErrProviderUnavailable
	var invalidErr *llm.ErrInvalidResponse
	var maxTokErr *llm.ErrMaxTokensExceeded

	switch {
	case errors.As(err, &quotaErr):
		return Result{Error: err.Error(), Code: CodeQuotaExceeded}
	case errors.As(err, &rateErr):
		return Result{Error: err.Error(), Code: CodeRateLimited}
	case errors.As(err, &unavailErr),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return Result{Error: err.Error(), Code: CodeUnavailable}
	case errors.As(err, &invalidErr), errors.As(err, &maxTokErr):
		return Result{Error: err.Error(), Code: CodeInvalidResponse}
	}
	return Result{Error: err.Error(), Code: CodeInternal}
}
