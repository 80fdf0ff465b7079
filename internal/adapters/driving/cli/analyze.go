package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driving/cli/styles"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// apiKeyEnv is checked before the provider's own variable.
const apiKeyEnv = "RISK_ANALYZER_API_KEY"

var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

type analyzeOptions struct {
	apiKey     string
	query      string
	historical string
	taxonomy   string
	target     string
	output     string
	json       bool
}

var analyzeOpts analyzeOptions

var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse a procurement document for risks",
	Long: `Loads the historical, taxonomy and target folders, retrieves historical
context relevant to the query, and asks the configured model for a structured
risk assessment of the target document.

Folders default to the configured paths (see 'riskanalyzer settings show').
The API key is read from --api-key, then RISK_ANALYZER_API_KEY, then the
provider variable (OPENAI_API_KEY or ANTHROPIC_API_KEY). On a terminal you are
prompted when none is found.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.apiKey, "api-key", "", "API key for the configured providers")
	f.StringVarP(&analyzeOpts.query, "query", "q", "", "retrieval question (default: the built-in risk question)")
	f.StringVar(&analyzeOpts.historical, "historical", "", "folder of historical procurement records")
	f.StringVar(&analyzeOpts.taxonomy, "taxonomy", "", "folder holding the risk taxonomy document")
	f.StringVar(&analyzeOpts.target, "target", "", "folder holding the target document")
	f.StringVarP(&analyzeOpts.output, "output", "o", "", "output artifact path")
	f.BoolVar(&analyzeOpts.json, "json", false, "print the run outcome as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if analyzer == nil {
		return errors.New("analysis service not configured")
	}

	apiKey, err := resolveAPIKey(cmd, analyzeOpts.apiKey, true)
	if err != nil {
		return err
	}

	report, err := analyzer.AnalyzeFolders(cmd.Context(), driving.FolderRequest{
		APIKey:        apiKey,
		Query:         analyzeOpts.query,
		HistoricalDir: analyzeOpts.historical,
		TaxonomyDir:   analyzeOpts.taxonomy,
		TargetDir:     analyzeOpts.target,
		OutputPath:    analyzeOpts.output,
	})
	if err != nil {
		var aerr *domain.AnalysisError
		if errors.As(err, &aerr) {
			if hint := errorHint(aerr.Kind); hint != "" {
				cmd.PrintErrln(hint)
			}
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeOpts.json {
		return outputAnalyzeJSON(cmd, report)
	}
	outputAnalyzeText(cmd, report)
	return nil
}

// resolveAPIKey finds the credential for the configured providers, asking
// on the terminal when prompt is set. An empty key is returned when none is
// needed or none could be found; the analysis then reports it as missing.
func resolveAPIKey(cmd *cobra.Command, flagKey string, prompt bool) (string, error) {
	if flagKey != "" {
		return flagKey, nil
	}
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key, nil
	}

	settings := domain.DefaultSettings()
	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return "", fmt.Errorf("failed to get settings: %w", err)
		}
		settings = s
	}
	if !settings.AI.RequiresAPIKey() {
		return "", nil
	}

	for _, p := range []domain.AIProvider{settings.AI.LLMProvider, settings.AI.EffectiveEmbeddingProvider()} {
		if env, ok := providerKeyEnv[p]; ok {
			if key := os.Getenv(env); key != "" {
				return key, nil
			}
		}
	}

	if prompt && stdinIsTerminal() {
		cmd.Printf("Enter API key for %s: ", settings.AI.LLMProvider.Description())
		key := readPassword()
		cmd.Println()
		return key, nil
	}
	return "", nil
}

func errorHint(kind domain.ErrorKind) string {
	switch kind {
	case domain.ErrorKindConfiguration:
		return "Check the provider settings with 'riskanalyzer settings show' or pass --api-key."
	case domain.ErrorKindInput:
		return "The taxonomy and target folders must each hold a readable document."
	case domain.ErrorKindRetrieval:
		return "Historical documents could not be embedded or searched; check the embedding provider."
	case domain.ErrorKindGeneration:
		return "The model call failed; the provider may be unavailable or rate limiting."
	case domain.ErrorKindOutput:
		return "The output file could not be written; check --output."
	default:
		return ""
	}
}

func outputAnalyzeText(cmd *cobra.Command, report *driving.FolderReport) {
	out := cmd.OutOrStdout()

	for _, load := range report.Loads {
		for _, skipped := range load.Skipped {
			cmd.Printf("Skipped %s: %s\n", skipped.Path, skipped.Reason)
		}
	}

	cmd.Printf("Run %s: %s\n", report.RunID, report.Outcome.Description())
	if report.ReducedContext {
		cmd.Println("Note: no historical context was retrieved; the assessment used only the taxonomy and target.")
	} else {
		cmd.Printf("Retrieved %d historical document(s).\n", report.RetrievedCount)
	}
	cmd.Println()

	renderResult(out, styles.NewStyles(out, nil), report.ParseResult, bandOf)

	if report.OutputPath != "" {
		cmd.Printf("Output written to %s\n", report.OutputPath)
	}
}

type analyzeJSON struct {
	RunID          string                `json:"run_id"`
	Outcome        domain.ParseOutcome   `json:"outcome"`
	MissingKeys    []string              `json:"missing_keys,omitempty"`
	Warnings       []string              `json:"warnings,omitempty"`
	ReducedContext bool                  `json:"reduced_context"`
	RetrievedCount int                   `json:"retrieved_count"`
	OutputPath     string                `json:"output_path"`
	Skipped        []string              `json:"skipped,omitempty"`
	Result         domain.AnalysisResult `json:"result"`
	Partial        map[string]any        `json:"partial,omitempty"`
}

func outputAnalyzeJSON(cmd *cobra.Command, report *driving.FolderReport) error {
	out := analyzeJSON{
		RunID:          report.RunID,
		Outcome:        report.Outcome,
		MissingKeys:    report.MissingKeys,
		Warnings:       report.Warnings,
		ReducedContext: report.ReducedContext,
		RetrievedCount: report.RetrievedCount,
		OutputPath:     report.OutputPath,
		Result:         report.Result,
		Partial:        report.Partial,
	}
	for _, load := range report.Loads {
		for _, skipped := range load.Skipped {
			out.Skipped = append(out.Skipped, skipped.Path+": "+skipped.Reason)
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// bandOf labels a score, or returns "" when no report reader is wired.
func bandOf(score int) string {
	if reportReader == nil {
		return ""
	}
	return reportReader.Band(score)
}

func readPassword() string {
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(password))
}
