package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOpenAI || p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// Default analysis settings.
const (
	DefaultTopK          = 3
	DefaultTemperature   = 0.5
	DefaultMaxTokens     = 4096
	DefaultHistoricalDir = "historical_documents"
	DefaultTaxonomyDir   = "risks_document"
	DefaultTargetDir     = "target_document"
	DefaultOutputPath    = "outputs/risk_analysis.json"

	// DefaultQuery is the retrieval question used when none is given.
	DefaultQuery = "What are the risks associated with this procurement document?"
)

// AISettings holds provider configuration for embeddings and generation.
type AISettings struct {
	// LLMProvider generates the analysis.
	LLMProvider AIProvider

	// EmbeddingProvider generates vectors. Empty means same as LLMProvider.
	EmbeddingProvider AIProvider

	// LLMModel is the generation model name; empty selects the provider default.
	LLMModel string

	// EmbeddingModel is the embedding model name; empty selects the provider default.
	EmbeddingModel string

	// BaseURL overrides the provider endpoint (Ollama, Azure, proxies).
	BaseURL string

	// Timeout bounds each HTTP call; zero selects the adapter default.
	Timeout time.Duration
}

// EffectiveEmbeddingProvider resolves the provider used for embeddings.
func (s AISettings) EffectiveEmbeddingProvider() AIProvider {
	if s.EmbeddingProvider != "" {
		return s.EmbeddingProvider
	}
	return s.LLMProvider
}

// RequiresAPIKey reports whether any configured provider needs a credential.
func (s AISettings) RequiresAPIKey() bool {
	return s.LLMProvider.RequiresAPIKey() || s.EffectiveEmbeddingProvider().RequiresAPIKey()
}

// Validate checks the provider combination is usable.
func (s AISettings) Validate() error {
	if !s.LLMProvider.IsValid() {
		return fmt.Errorf("%w: llm provider %q", ErrUnsupportedType, s.LLMProvider)
	}
	embed := s.EffectiveEmbeddingProvider()
	if !embed.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, embed)
	}
	if !embed.SupportsEmbeddings() {
		return fmt.Errorf("%w: %s does not support embeddings, use ollama or openai",
			ErrUnsupportedType, embed)
	}
	return nil
}

// AnalysisSettings tunes retrieval and generation.
type AnalysisSettings struct {
	// TopK is the number of neighbours fetched per retrieval query.
	TopK int

	// Temperature controls generator randomness.
	Temperature float64

	// MaxTokens bounds the generated response length.
	MaxTokens int
}

// WithDefaults fills zero fields with defaults.
func (a AnalysisSettings) WithDefaults() AnalysisSettings {
	if a.TopK <= 0 {
		a.TopK = DefaultTopK
	}
	if a.Temperature <= 0 {
		a.Temperature = DefaultTemperature
	}
	if a.MaxTokens <= 0 {
		a.MaxTokens = DefaultMaxTokens
	}
	return a
}

// PathSettings locates the three input folders and the output artifact.
type PathSettings struct {
	Historical string
	Taxonomy   string
	Target     string
	Output     string
}

// WithDefaults fills empty fields with defaults relative to the working directory.
func (p PathSettings) WithDefaults() PathSettings {
	if p.Historical == "" {
		p.Historical = DefaultHistoricalDir
	}
	if p.Taxonomy == "" {
		p.Taxonomy = DefaultTaxonomyDir
	}
	if p.Target == "" {
		p.Target = DefaultTargetDir
	}
	if p.Output == "" {
		p.Output = DefaultOutputPath
	}
	return p
}

// Settings aggregates all user configuration.
type Settings struct {
	AI       AISettings
	Analysis AnalysisSettings
	Paths    PathSettings
}

// DefaultSettings returns the out-of-the-box configuration:
// OpenAI for both embeddings and generation with gpt-4o at temperature 0.5.
func DefaultSettings() Settings {
	return Settings{
		AI: AISettings{
			LLMProvider: AIProviderOpenAI,
			LLMModel:    "gpt-4o",
		},
		Analysis: AnalysisSettings{}.WithDefaults(),
		Paths:    PathSettings{}.WithDefaults(),
	}
}

// EmbeddingDimensions returns known embedding model dimensions.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
