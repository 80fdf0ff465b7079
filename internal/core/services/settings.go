package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyProvider       = "ai.provider"
	keyEmbedProvider  = "ai.embedding_provider"
	keyEmbedModel     = "ai.embedding_model"
	keyLLMModel       = "ai.llm_model"
	keyBaseURL        = "ai.base_url"
	keyTopK           = "analysis.top_k"
	keyTemperature    = "analysis.temperature"
	keyMaxTokens      = "analysis.max_tokens"
	keyPathHistorical = "paths.historical"
	keyPathTaxonomy   = "paths.taxonomy"
	keyPathTarget     = "paths.target"
	keyPathOutput     = "paths.output"
)

// settingSpec describes how one key is parsed and what it means.
type settingSpec struct {
	key         string
	description string
	parse       func(string) (any, error)
	value       func(domain.Settings) string
}

var settingSpecs = []settingSpec{
	{keyProvider, "Generation provider (openai, anthropic, ollama)", parseProvider,
		func(s domain.Settings) string { return s.AI.LLMProvider.String() }},
	{keyEmbedProvider, "Embedding provider (openai, ollama); empty follows ai.provider", parseOptionalProvider,
		func(s domain.Settings) string { return s.AI.EmbeddingProvider.String() }},
	{keyEmbedModel, "Embedding model; empty selects the provider default", parseText,
		func(s domain.Settings) string { return s.AI.EmbeddingModel }},
	{keyLLMModel, "Generation model; empty selects the provider default", parseText,
		func(s domain.Settings) string { return s.AI.LLMModel }},
	{keyBaseURL, "Provider endpoint override", parseText,
		func(s domain.Settings) string { return s.AI.BaseURL }},
	{keyTopK, "Neighbours fetched per retrieval query", parsePositiveInt,
		func(s domain.Settings) string { return strconv.Itoa(s.Analysis.TopK) }},
	{keyTemperature, "Generation temperature, above 0 and at most 2", parseTemperature,
		func(s domain.Settings) string { return strconv.FormatFloat(s.Analysis.Temperature, 'f', -1, 64) }},
	{keyMaxTokens, "Maximum generated tokens", parsePositiveInt,
		func(s domain.Settings) string { return strconv.Itoa(s.Analysis.MaxTokens) }},
	{keyPathHistorical, "Folder of historical procurement records", parseText,
		func(s domain.Settings) string { return s.Paths.Historical }},
	{keyPathTaxonomy, "Folder holding the risk taxonomy document", parseText,
		func(s domain.Settings) string { return s.Paths.Taxonomy }},
	{keyPathTarget, "Folder holding the target document", parseText,
		func(s domain.Settings) string { return s.Paths.Target }},
	{keyPathOutput, "Analysis output file", parseText,
		func(s domain.Settings) string { return s.Paths.Output }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings with defaults applied.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return defaults, nil
	}

	settings := domain.Settings{
		AI: domain.AISettings{
			LLMProvider:       domain.AIProvider(s.getString(keyProvider, defaults.AI.LLMProvider.String())),
			EmbeddingProvider: domain.AIProvider(s.configStore.GetString(keyEmbedProvider)),
			EmbeddingModel:    s.configStore.GetString(keyEmbedModel),
			LLMModel:          s.getString(keyLLMModel, defaults.AI.LLMModel),
			BaseURL:           s.configStore.GetString(keyBaseURL),
		},
		Analysis: domain.AnalysisSettings{
			TopK:        s.configStore.GetInt(keyTopK),
			Temperature: s.configStore.GetFloat(keyTemperature),
			MaxTokens:   s.configStore.GetInt(keyMaxTokens),
		}.WithDefaults(),
		Paths: domain.PathSettings{
			Historical: s.configStore.GetString(keyPathHistorical),
			Taxonomy:   s.configStore.GetString(keyPathTaxonomy),
			Target:     s.configStore.GetString(keyPathTarget),
			Output:     s.configStore.GetString(keyPathOutput),
		}.WithDefaults(),
	}

	// A model chosen for another provider is meaningless; fall back to the adapter default.
	if settings.AI.LLMProvider != defaults.AI.LLMProvider && s.configStore.GetString(keyLLMModel) == "" {
		settings.AI.LLMModel = ""
	}

	if err := settings.AI.Validate(); err != nil {
		return settings, fmt.Errorf("invalid settings in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set validates value for key and persists it. Provider changes are
// checked against the resulting provider combination before saving.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return fmt.Errorf("%w: no config store", domain.ErrInvalidInput)
	}
	spec, ok := findSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := spec.parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if key == keyProvider || key == keyEmbedProvider {
		current, _ := s.Get()
		ai := current.AI
		if key == keyProvider {
			ai.LLMProvider = domain.AIProvider(parsed.(string))
		} else {
			ai.EmbeddingProvider = domain.AIProvider(parsed.(string))
		}
		if err := ai.Validate(); err != nil {
			return err
		}
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Entries lists every supported key with its effective value.
func (s *SettingsService) Entries() ([]driving.SettingEntry, error) {
	settings, err := s.Get()
	entries := make([]driving.SettingEntry, 0, len(settingSpecs))
	for _, spec := range settingSpecs {
		entries = append(entries, driving.SettingEntry{
			Key:         spec.key,
			Value:       spec.value(settings),
			Description: spec.description,
		})
	}
	return entries, err
}

func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

func findSetting(key string) (settingSpec, bool) {
	for _, spec := range settingSpecs {
		if spec.key == key {
			return spec, true
		}
	}
	return settingSpec{}, false
}

func parseText(v string) (any, error) {
	return v, nil
}

func parseProvider(v string) (any, error) {
	p := domain.AIProvider(strings.ToLower(v))
	if !p.IsValid() {
		return nil, fmt.Errorf("unknown provider %q", v)
	}
	return string(p), nil
}

func parseOptionalProvider(v string) (any, error) {
	if v == "" {
		return "", nil
	}
	return parseProvider(v)
}

func parsePositiveInt(v string) (any, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%q is not a positive integer", v)
	}
	return int64(n), nil
}

func parseTemperature(v string) (any, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > 2 {
		return nil, fmt.Errorf("%q is not a temperature in (0, 2]", v)
	}
	return f, nil
}
