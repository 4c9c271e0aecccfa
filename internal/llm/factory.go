package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/store"
)

// Resolve replaces the "auto" provider with a concrete one: the first
// provider with a standard API key in the environment, otherwise ollama.
func Resolve(cfg Config) Config {
	if cfg.Provider != ProviderAuto {
		return cfg
	}
	if found, ok := DiscoverConfig(cfg); ok {
		return found
	}
	cfg.Provider = ProviderOllama
	return cfg
}

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	cfg = Resolve(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderOllama:
		base = NewOllamaProvider(cfg.Ollama)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, logger)
	return WithRetry(logged, cfg.Retry, RetryLogger(logger)), nil
}
