package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-opus":   "claude-opus-4-5",
}

var anthropicStops = map[anthropic.StopReason]string{
	anthropic.StopReasonEndTurn:   StopEnd,
	anthropic.StopReasonMaxTokens: StopMaxTokens,
	anthropic.StopReasonRefusal:   stopBlocked,
}

// AnthropicProvider talks to the Messages API. Schemas use the native
// JSON output format.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for cfg.Model, which may be a
// friendly name such as "claude-haiku".
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &AnthropicProvider{client: &client, model: resolveModel(cfg.Model, anthropicModels)}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	msg, err := p.client.Messages.New(ctx, p.messageParams(req))
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	stop := stopFrom(msg.StopReason, anthropicStops)
	if stop == stopBlocked {
		return nil, &ErrInvalidResponse{Err: errors.New("model refused the request")}
	}

	// Hebrew replies are sometimes split across several text blocks.
	var text strings.Builder
	blocks := 0
	for _, b := range msg.Content {
		if b.Type == "text" {
			text.WriteString(b.Text)
			blocks++
		}
	}
	if blocks == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no text blocks in message")}
	}

	return reply(req, json.RawMessage(text.String()), stop, string(msg.Model), Usage{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
	})
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

func (p *AnthropicProvider) messageParams(req Request) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(tokenBudget(req)),
		Messages:  make([]anthropic.MessageParam, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		params.Messages = append(params.Messages, anthropic.MessageParam{
			Role:    vendorRole(m.Role, anthropic.MessageParamRoleUser, anthropic.MessageParamRoleAssistant),
			Content: []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(m.Content)},
		})
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	return vendorFailure{
		status: apiErr.StatusCode,
		quota:  strings.Contains(apiErr.Error(), "credit balance"),
	}.classify(err)
}
