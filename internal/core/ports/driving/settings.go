package driving

import "github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"

// SettingEntry is one configurable key with its effective value.
type SettingEntry struct {
	Key         string
	Value       string
	Description string
}

// SettingsService manages persistent user settings.
type SettingsService interface {
	// Get returns the effective settings, defaults applied.
	Get() (domain.Settings, error)

	// Set validates and persists one key.
	Set(key, value string) error

	// Entries lists every supported key with its effective value.
	Entries() ([]SettingEntry, error)
}
