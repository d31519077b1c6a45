package llm

import "fmt"

const (
	defaultDeepSeekBaseURL   = "https://api.deepseek.com/v1"
	defaultOllamaBaseURL     = "http://localhost:11434/v1"
	defaultLMStudioBaseURL   = "http://localhost:1234/v1"
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// NewDeepSeekProvider targets the DeepSeek API. DeepSeek accepts JSON
// object output but not JSON Schema, so schemas travel in the prompt.
func NewDeepSeekProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek API key is required")
	}
	return newCompatProvider(cfg, defaultDeepSeekBaseURL, false)
}

// NewOllamaProvider targets a local Ollama server's OpenAI-compatible API.
func NewOllamaProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = "ollama"
	}
	return newCompatProvider(cfg, defaultOllamaBaseURL, false)
}

// NewLMStudioProvider targets a local LM Studio server, which supports
// JSON Schema response formats.
func NewLMStudioProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = "lm-studio"
	}
	return newCompatProvider(cfg, defaultLMStudioBaseURL, true)
}

// NewOpenRouterProvider targets OpenRouter, which forwards JSON Schema
// response formats to the routed model.
func NewOpenRouterProvider(cfg CompatConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	return newCompatProvider(cfg, defaultOpenRouterBaseURL, true)
}

func newCompatProvider(cfg CompatConfig, defaultBaseURL string, nativeSchema bool) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required for %s", baseURL)
	}
	return newChatCompletions(cfg.APIKey, baseURL, cfg.Model, nativeSchema), nil
}
