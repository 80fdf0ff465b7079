// Package cli implements the riskanalyzer command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

var version = "dev"

var verbose bool

// Services wired in by main.
var (
	analyzer        driving.FolderAnalyzer
	reportReader    driving.ReportReader
	historyService  driving.RunHistoryService
	settingsService driving.SettingsService
)

// Services holds the driving ports the commands call into.
// Nil fields leave the matching commands reporting "not configured".
type Services struct {
	Analyzer driving.FolderAnalyzer
	Reports  driving.ReportReader
	History  driving.RunHistoryService
	Settings driving.SettingsService
}

var rootCmd = &cobra.Command{
	Use:   "riskanalyzer",
	Short: "Procurement risk analysis",
	Long: `riskanalyzer reviews a procurement document against a risk taxonomy and a
corpus of historical procurement records.

Historical documents are embedded and searched for context, the taxonomy and
target document are combined into one prompt, and the generated assessment is
validated, scored and written to an output file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
}

// Configure sets the services used by the commands.
func Configure(s Services) {
	analyzer = s.Analyzer
	reportReader = s.Reports
	historyService = s.History
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
