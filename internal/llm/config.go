package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAuto       = "auto"
	ProviderOllama     = "ollama"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which backend to use. "auto" picks the first
	// provider with a standard API key in the environment and falls back
	// to ollama.
	Provider string

	Ollama     OllamaConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single tutor call, retries included. Default: 60s.
	Timeout time.Duration

	// MaxTokens and Temperature are applied to every tutor request.
	MaxTokens   int
	Temperature float64
}

// OllamaConfig targets a local OpenAI-compatible server.
type OllamaConfig struct {
	BaseURL string // Default: "http://localhost:11434/v1"
	Model   string // Default: "qwen2.5:3b"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional; tests point it at a local server
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig talks to a local ollama server with a single attempt per
// call.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOllama,
		Ollama:     OllamaConfig{BaseURL: ollamaHost.baseURL, Model: ollamaHost.model},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: openRouterHost.model},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout:   time.Minute,
		MaxTokens: 1024,
	}
}

// keyedProvider is a hosted backend that needs an API key.
type keyedProvider struct {
	name   string
	envKey string // the vendor's conventional variable
	apiKey func(*Config) *string
}

// keyedProviders in discovery order.
var keyedProviders = []keyedProvider{
	{ProviderGemini, "GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{ProviderOpenAI, "OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{ProviderAnthropic, "ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{ProviderOpenRouter, "OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig selects the first keyed provider whose conventional API key
// variable is set, copying the key in. It reports false when none is set.
func DiscoverConfig(base Config) (Config, bool) {
	for _, kp := range keyedProviders {
		if k := os.Getenv(kp.envKey); k != "" {
			cfg := base
			cfg.Provider = kp.name
			*kp.apiKey(&cfg) = k
			return cfg, true
		}
	}
	return base, false
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("LLM timeout must not be negative")
	}
	switch c.Provider {
	case ProviderAuto, ProviderMock:
		return nil
	case ProviderOllama:
		if c.Ollama.Model == "" {
			return fmt.Errorf("an ollama model name is required")
		}
		return nil
	}
	for _, kp := range keyedProviders {
		if kp.name != c.Provider {
			continue
		}
		if *kp.apiKey(&c) == "" {
			return fmt.Errorf("SKILLGAP_LLM_%s_API_KEY is required for the %s provider",
				strings.ToUpper(kp.name), kp.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
