package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recent analysis runs",
	Long: `Lists recent analysis runs from the run ledger, newest first.
Pass a run ID to show the details of one run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	if len(args) == 1 {
		run, err := historyService.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get run: %w", err)
		}
		printRun(cmd, run)
		return nil
	}

	runs, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No analysis runs recorded.")
		return nil
	}

	cmd.Println("Recent runs:")
	cmd.Println()
	for i := range runs {
		r := &runs[i]
		status := string(r.Outcome)
		if !r.Succeeded() {
			status = "failed (" + string(r.ErrorKind) + ")"
		}
		cmd.Printf("  %s  %s  %-22s score %3d  H%d/M%d/L%d\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), status,
			r.RiskScore, r.HighCount, r.MediumCount, r.LowCount)
	}
	return nil
}

func printRun(cmd *cobra.Command, r *domain.RunRecord) {
	cmd.Printf("Run:       %s\n", r.ID)
	cmd.Printf("Started:   %s\n", r.StartedAt.Local().Format(time.DateTime))
	cmd.Printf("Duration:  %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	cmd.Printf("Query:     %s\n", r.Query)

	if !r.Succeeded() {
		cmd.Printf("Status:    failed (%s)\n", r.ErrorKind)
		cmd.Printf("Error:     %s\n", r.ErrorMessage)
		return
	}

	cmd.Printf("Outcome:   %s\n", r.Outcome.Description())
	cmd.Printf("Risks:     %d high, %d medium, %d low\n", r.HighCount, r.MediumCount, r.LowCount)
	cmd.Printf("Score:     %d\n", r.RiskScore)
	if r.ReducedContext {
		cmd.Println("Context:   reduced (no historical documents retrieved)")
	}
	if r.OutputPath != "" {
		cmd.Printf("Output:    %s\n", r.OutputPath)
	}
}
