// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML settings under ~/.riskanalyzer/config.toml
//   - PromptStore: user-editable prompt templates under ~/.riskanalyzer/prompts
package file
