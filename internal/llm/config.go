package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderGoogle     = "google" // alias of gemini
	ProviderDeepSeek   = "deepseek"
	ProviderOllama     = "ollama"
	ProviderLMStudio   = "lmstudio"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig `yaml:"anthropic"`
	OpenAI     OpenAIConfig    `yaml:"openai"`
	Gemini     GeminiConfig    `yaml:"gemini"`
	DeepSeek   CompatConfig    `yaml:"deepseek"`
	Ollama     CompatConfig    `yaml:"ollama"`
	LMStudio   CompatConfig    `yaml:"lmstudio"`
	OpenRouter CompatConfig    `yaml:"openrouter"`
	Retry      RetryConfig     `yaml:"retry"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `yaml:"base_url"` // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "gemini-flash"
}

// CompatConfig configures an OpenAI-compatible endpoint (DeepSeek, Ollama,
// LM Studio, OpenRouter). Local servers ignore the API key.
type CompatConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		DeepSeek: CompatConfig{
			Model:     "deepseek-chat",
			BaseURL:   defaultDeepSeekBaseURL,
			MaxTokens: 800,
		},
		Ollama: CompatConfig{
			Model:   "llama3.1",
			BaseURL: defaultOllamaBaseURL,
		},
		LMStudio: CompatConfig{
			Model:   "local-model",
			BaseURL: defaultLMStudioBaseURL,
		},
		OpenRouter: CompatConfig{
			Model:   "google/gemini-2.0-flash-exp",
			BaseURL: defaultOpenRouterBaseURL,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides c with any LESSONROOM_* variables that are set.
func (c *Config) ApplyEnv() {
	set := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "LESSONROOM_LLM_PROVIDER")

	set(&c.Anthropic.APIKey, "LESSONROOM_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "LESSONROOM_ANTHROPIC_MODEL")

	set(&c.OpenAI.APIKey, "LESSONROOM_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "LESSONROOM_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "LESSONROOM_OPENAI_BASE_URL")

	set(&c.Gemini.APIKey, "LESSONROOM_GEMINI_API_KEY")
	set(&c.Gemini.Model, "LESSONROOM_GEMINI_MODEL")

	set(&c.DeepSeek.APIKey, "LESSONROOM_DEEPSEEK_API_KEY")
	set(&c.DeepSeek.Model, "LESSONROOM_DEEPSEEK_MODEL")
	set(&c.DeepSeek.BaseURL, "LESSONROOM_DEEPSEEK_BASE_URL")

	set(&c.Ollama.Model, "LESSONROOM_OLLAMA_MODEL")
	set(&c.Ollama.BaseURL, "LESSONROOM_OLLAMA_BASE_URL")

	set(&c.LMStudio.Model, "LESSONROOM_LMSTUDIO_MODEL")
	set(&c.LMStudio.BaseURL, "LESSONROOM_LMSTUDIO_BASE_URL")

	set(&c.OpenRouter.APIKey, "LESSONROOM_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "LESSONROOM_OPENROUTER_MODEL")
}

// DiscoverConfig probes standard API key env vars in priority order
// (OpenAI → Anthropic → Gemini → DeepSeek → OpenRouter) and returns a
// Config for the first provider whose key is found. Returns
// (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("DEEPSEEK_API_KEY"); k != "" {
		cfg.Provider = ProviderDeepSeek
		cfg.DeepSeek.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has what it needs to start.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("LESSONROOM_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("LESSONROOM_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini, ProviderGoogle:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("LESSONROOM_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderDeepSeek:
		if c.DeepSeek.APIKey == "" {
			return fmt.Errorf("LESSONROOM_DEEPSEEK_API_KEY is required for the deepseek provider")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			return fmt.Errorf("LESSONROOM_OLLAMA_BASE_URL is required for the ollama provider")
		}
	case ProviderLMStudio:
		if c.LMStudio.BaseURL == "" {
			return fmt.Errorf("LESSONROOM_LMSTUDIO_BASE_URL is required for the lmstudio provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("LESSONROOM_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// MaxTokens returns the completion budget for the selected provider.
// DeepSeek reasoning models need a larger budget than the others.
func (c Config) MaxTokens() int {
	if c.Provider == ProviderDeepSeek && c.DeepSeek.MaxTokens > 0 {
		return c.DeepSeek.MaxTokens
	}
	return defaultCompletionTokens
}
