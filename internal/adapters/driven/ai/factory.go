// Package ai provides the factory that builds AI service adapters from settings.
package ai

import (
	"fmt"
	"sync"
	"time"

	ollamaembed "github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/embedding/openai"
	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/httpapi"
	anthropicllm "github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/llm/ollama"
	openaillm "github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/llm/openai"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
)

// defaultTimeout bounds each provider call when settings leave it unset.
const defaultTimeout = 180 * time.Second

// Ensure Factory implements the interface.
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates embedding and LLM services for the configured providers.
// Services of the same provider share one HTTP client, and so one rate limiter.
type Factory struct {
	settings domain.AISettings

	mu      sync.Mutex
	clients map[domain.AIProvider]*httpapi.Client
}

// NewFactory validates settings and returns a factory for them.
func NewFactory(settings domain.AISettings) (*Factory, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}
	return &Factory{
		settings: settings,
		clients:  make(map[domain.AIProvider]*httpapi.Client),
	}, nil
}

// RequiresCredential reports whether any configured provider needs an API key.
func (f *Factory) RequiresCredential() bool {
	return f.settings.RequiresAPIKey()
}

// NewEmbeddingService creates the embedding service for the effective provider.
func (f *Factory) NewEmbeddingService(apiKey string) (driven.EmbeddingService, error) {
	provider := f.settings.EffectiveEmbeddingProvider()
	baseURL := f.baseURLFor(provider)

	switch provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: baseURL,
			Model:   f.settings.EmbeddingModel,
			Timeout: f.settings.Timeout,
			Client:  f.client(provider),
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   f.settings.EmbeddingModel,
			Timeout: f.settings.Timeout,
			Client:  f.client(provider),
		})

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// NewLLMService creates the generation service for the configured provider.
func (f *Factory) NewLLMService(apiKey string) (driven.LLMService, error) {
	provider := f.settings.LLMProvider
	baseURL := f.baseURLFor(provider)

	switch provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: baseURL,
			Model:   f.settings.LLMModel,
			Timeout: f.settings.Timeout,
			Client:  f.client(provider),
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   f.settings.LLMModel,
			Timeout: f.settings.Timeout,
			Client:  f.client(provider),
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  apiKey,
			BaseURL: baseURL,
			Model:   f.settings.LLMModel,
			Timeout: f.settings.Timeout,
			Client:  f.client(provider),
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// baseURLFor returns the configured endpoint override. It applies to the
// generation provider, and to embeddings only when both use that provider.
func (f *Factory) baseURLFor(provider domain.AIProvider) string {
	if provider == f.settings.LLMProvider {
		return f.settings.BaseURL
	}
	return ""
}

func (f *Factory) client(provider domain.AIProvider) *httpapi.Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[provider]; ok {
		return c
	}
	c := httpapi.NewClient(string(provider), httpapi.Options{Timeout: f.settings.Timeout})
	f.clients[provider] = c
	return c
}
