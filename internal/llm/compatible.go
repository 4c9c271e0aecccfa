package llm

import "fmt"

// compatibleHost describes a backend reached through the OpenAI
// chat-completions protocol with its own defaults.
type compatibleHost struct {
	name         string
	baseURL      string
	model        string
	staticAPIKey string // sent when the host needs no real key
}

var (
	// ollama ignores the bearer token but the client always sends one.
	ollamaHost = compatibleHost{
		name:         ProviderOllama,
		baseURL:      "http://localhost:11434/v1",
		model:        "qwen2.5:3b",
		staticAPIKey: "ollama",
	}
	openRouterHost = compatibleHost{
		name:    ProviderOpenRouter,
		baseURL: "https://openrouter.ai/api/v1",
		model:   "google/gemini-2.0-flash-exp",
	}
)

func (h compatibleHost) connect(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	if h.staticAPIKey != "" {
		apiKey = h.staticAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", h.name)
	}
	if baseURL == "" {
		baseURL = h.baseURL
	}
	if model == "" {
		model = h.model
	}
	return newOpenAICompatible(apiKey, baseURL, model), nil
}

// OllamaProvider talks to a local ollama server.
type OllamaProvider struct {
	*OpenAIProvider
}

// NewOllamaProvider creates a provider for a local model. No API key is
// needed.
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	p, _ := ollamaHost.connect("", cfg.BaseURL, cfg.Model)
	return &OllamaProvider{OpenAIProvider: p}
}

// OpenRouterProvider routes requests through OpenRouter.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider requires an API key; model and base URL default to
// OpenRouter's.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	p, err := openRouterHost.connect(cfg.APIKey, cfg.BaseURL, cfg.Model)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: p}, nil
}
