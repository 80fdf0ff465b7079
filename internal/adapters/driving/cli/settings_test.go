package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func executeSettings(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(append([]string{"settings"}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	cleanup := setupServices(Services{})
	defer cleanup()

	_, err := executeSettings(t, "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsShow_GroupsEntriesBySection(t *testing.T) {
	clearKeyEnv(t)
	settings := &mockSettingsService{
		settings: domain.DefaultSettings(),
		entries: []driving.SettingEntry{
			{Key: "ai.provider", Value: "openai", Description: "Generation provider"},
			{Key: "ai.base_url", Value: "", Description: "Provider endpoint override"},
			{Key: "analysis.top_k", Value: "3", Description: "Neighbours fetched per retrieval query"},
		},
	}
	cleanup := setupServices(Services{Settings: settings})
	defer cleanup()

	out, err := executeSettings(t)

	require.NoError(t, err)
	assert.Contains(t, out, "[ai]")
	assert.Contains(t, out, "[analysis]")
	assert.Contains(t, out, "ai.provider")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "Neighbours fetched per retrieval query")
	assert.Contains(t, out, "API key: (not set")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_MasksKeyFromEnvironment(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-1234567890abcdef")
	cleanup := setupServices(Services{Settings: &mockSettingsService{settings: domain.DefaultSettings()}})
	defer cleanup()

	out, err := executeSettings(t, "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API key: sk-1...cdef (from OPENAI_API_KEY)")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestSettingsShow_WarnsOnInvalidProviders(t *testing.T) {
	s := domain.DefaultSettings()
	s.AI.LLMProvider = domain.AIProviderAnthropic
	cleanup := setupServices(Services{Settings: &mockSettingsService{settings: s}})
	defer cleanup()

	out, err := executeSettings(t, "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "does not support embeddings")
}

func TestSettingsSet(t *testing.T) {
	settings := &mockSettingsService{}
	cleanup := setupServices(Services{Settings: settings})
	defer cleanup()

	out, err := executeSettings(t, "set", "analysis.top_k", "5")

	require.NoError(t, err)
	assert.Equal(t, "analysis.top_k", settings.setKey)
	assert.Equal(t, "5", settings.setValue)
	assert.Contains(t, out, "Set analysis.top_k = 5")
}

func TestSettingsSet_RejectedValue(t *testing.T) {
	settings := &mockSettingsService{err: errors.New("invalid input: top_k must be positive")}
	cleanup := setupServices(Services{Settings: settings})
	defer cleanup()

	_, err := executeSettings(t, "set", "analysis.top_k", "0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set analysis.top_k")
}

func TestSettingsSet_RequiresTwoArgs(t *testing.T) {
	cleanup := setupServices(Services{Settings: &mockSettingsService{}})
	defer cleanup()

	_, err := executeSettings(t, "set", "ai.provider")

	require.Error(t, err)
}
