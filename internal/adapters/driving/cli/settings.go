package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, analysis tuning and input paths.

Settings are stored in ~/.riskanalyzer/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Validate and store one setting. Run 'riskanalyzer settings show' for the
list of keys.

Examples:
  riskanalyzer settings set ai.provider anthropic
  riskanalyzer settings set ai.embedding_provider ollama
  riskanalyzer settings set analysis.top_k 5`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	entries, err := settingsService.Entries()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, e := range entries {
		if s, _, ok := strings.Cut(e.Key, "."); ok && s != section {
			section = s
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}
		value := e.Value
		if value == "" {
			value = "(default)"
		}
		cmd.Printf("  %-26s %s\n", e.Key, value)
		cmd.Printf("  %-26s %s\n", "", e.Description)
	}
	cmd.Println()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := settings.AI.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return nil
	}
	if settings.AI.RequiresAPIKey() {
		cmd.Printf("API key: %s\n", credentialStatus(settings.AI.LLMProvider))
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// credentialStatus reports which environment variable supplies the API key.
func credentialStatus(provider domain.AIProvider) string {
	for _, env := range []string{apiKeyEnv, providerKeyEnv[provider]} {
		if env == "" {
			continue
		}
		if key := os.Getenv(env); key != "" {
			return fmt.Sprintf("%s (from %s)", maskAPIKey(key), env)
		}
	}
	return "(not set; pass --api-key or set " + apiKeyEnv + ")"
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
