package llm

import (
	"fmt"
	"strings"

	"github.com/ta-agent/taagent/internal/config"
)

// NewProvider creates the provider selected by the llm configuration
// section, rate limited when cfg.RPM is positive.
// Supported provider types: "openai", "openrouter", "ollama".
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	var p Provider
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		p = NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)

	case config.ProviderOpenRouter:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		p = NewOpenRouterProvider(cfg.APIKey, cfg.Model)

	case config.ProviderOllama:
		host := strings.TrimRight(cfg.BaseURL, "/")
		if host == "" {
			host = "http://localhost:11434"
		}
		p = NewOllamaProvider(host, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	return Throttle(p, cfg.RPM), nil
}
