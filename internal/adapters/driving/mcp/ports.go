package mcp

import (
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analyzer runs analyses over the input folders.
	Analyzer driving.FolderAnalyzer

	// Reports reads written output artifacts.
	Reports driving.ReportReader

	// Settings supplies the default output path. Optional.
	Settings driving.SettingsService

	// History exposes the run ledger as resources. Optional.
	History driving.RunHistoryService

	// APIKey is the credential passed to every analysis run.
	APIKey string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	if p.Reports == nil {
		return ErrMissingReports
	}
	return nil
}
