package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

var openaiStops = map[openai.FinishReason]string{
	openai.FinishReasonStop:          StopEnd,
	openai.FinishReasonLength:        StopMaxTokens,
	openai.FinishReasonContentFilter: stopBlocked,
}

// OpenAIProvider talks to the Chat Completions API. The same client serves
// every OpenAI-compatible endpoint (DeepSeek, Ollama, LM Studio,
// OpenRouter) through its base URL.
type OpenAIProvider struct {
	client *openai.Client
	model  string

	// nativeSchema is false for endpoints that only accept JSON object
	// output; the schema is then sent as a system instruction.
	nativeSchema bool
}

// NewOpenAIProvider creates a provider for api.openai.com or cfg.BaseURL.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	return newChatCompletions(cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels), true), nil
}

func newChatCompletions(apiKey, baseURL, model string, nativeSchema bool) *OpenAIProvider {
	conf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		conf.BaseURL = baseURL
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(conf),
		model:        model,
		nativeSchema: nativeSchema,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no choices in chat completion")}
	}

	choice := resp.Choices[0]
	stop := stopFrom(choice.FinishReason, openaiStops)
	if stop == stopBlocked {
		return nil, &ErrInvalidResponse{Err: errors.New("reply removed by content filter")}
	}
	if choice.Message.Refusal != "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("model refused: %s", choice.Message.Refusal)}
	}

	return reply(req, json.RawMessage(choice.Message.Content), stop, resp.Model, Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	})
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// chatRequest translates req. Without native structured output the schema
// moves into the system prompt and only a JSON object is requested.
func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	system := req.System
	var format *openai.ChatCompletionResponseFormat
	if s := req.Schema; s != nil {
		if p.nativeSchema {
			def, err := json.Marshal(s.Definition)
			if err != nil {
				return openai.ChatCompletionRequest{}, fmt.Errorf("marshal schema %s: %w", s.Name, err)
			}
			format = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   s.Name,
					Schema: json.RawMessage(def),
					Strict: true,
				},
			}
		} else {
			system = appendSchemaInstruction(system, s)
			format = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
		}
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    vendorRole(m.Role, openai.ChatMessageRoleUser, openai.ChatMessageRoleAssistant),
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		ResponseFormat:      format,
	}, nil
}

// appendSchemaInstruction adds the schema to the system prompt for
// endpoints without native structured output.
func appendSchemaInstruction(system string, schema *Schema) string {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return system
	}
	instr := fmt.Sprintf("Respond with a single JSON object only, no prose, matching this JSON Schema (%s):\n%s", schema.Name, def)
	if system == "" {
		return instr
	}
	return system + "\n\n" + instr
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return &ErrProviderUnavailable{Err: err}
	}
	return vendorFailure{
		status: apiErr.HTTPStatusCode,
		quota:  apiErr.Type == "insufficient_quota" || apiErr.Code == "insufficient_quota",
	}.classify(err)
}
