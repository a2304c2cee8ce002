package llm

import (
	"errors"
	"fmt"
	"os"

	"github.com/ezlaw/ezlaw/internal/config"
)

// ErrMissingAPIKey is returned by NewProvider when the provider needs a key
// and none is set in the environment.
var ErrMissingAPIKey = errors.New("API key not configured")

// NewProvider creates a provider of the given type. Keys come from the
// environment: GEMINI_API_KEY (or GOOGLE_API_KEY) for google, OPENAI_API_KEY
// for openai. Ollama needs no key and honours OLLAMA_HOST.
func NewProvider(providerType config.ProviderType, model string) (Provider, error) {
	switch providerType {
	case config.ProviderGoogle:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set: %w", ErrMissingAPIKey)
		}
		return NewGoogleProvider(apiKey, model), nil

	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set: %w", ErrMissingAPIKey)
		}
		return NewOpenAIProvider(apiKey, model, os.Getenv("OPENAI_BASE_URL")), nil

	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// FromConfig builds the provider described by cfg, rate limited when
// requests_per_minute is set.
func FromConfig(cfg config.ChatConfig) (Provider, error) {
	p, err := NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RequestsPerMinute > 0 {
		p = NewRateLimitedProvider(p, cfg.RequestsPerMinute)
	}
	return p, nil
}
