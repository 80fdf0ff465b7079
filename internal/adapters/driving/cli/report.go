package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driving/cli/styles"
)

var reportCmd = &cobra.Command{
	Use:   "report [path]",
	Short: "Show a written risk report",
	Long: `Reads an analysis output file and prints the summary panel, the risks,
the mitigation plan and the timeline.

Without a path the configured output file is read. Files holding raw model
text instead of a structured report are printed verbatim.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportReader == nil {
		return errors.New("report service not configured")
	}

	path, err := reportPath(args)
	if err != nil {
		return err
	}

	result, err := reportReader.Read(path)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}

	out := cmd.OutOrStdout()
	cmd.Printf("Report: %s\n\n", path)
	renderResult(out, styles.NewStyles(out, nil), result, reportReader.Band)
	return nil
}

func reportPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if settingsService == nil {
		return "", errors.New("no report path given and settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Paths.Output, nil
}
