package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// AnalyzeInput is the input schema for the analyze_procurement_risk tool.
type AnalyzeInput struct {
	Query         string `json:"query,omitempty" jsonschema:"retrieval question; defaults to the built-in procurement risk question"`
	HistoricalDir string `json:"historical_dir,omitempty" jsonschema:"folder of historical procurement records"`
	TaxonomyDir   string `json:"taxonomy_dir,omitempty" jsonschema:"folder holding the risk taxonomy document"`
	TargetDir     string `json:"target_dir,omitempty" jsonschema:"folder holding the procurement document to analyse"`
	OutputPath    string `json:"output_path,omitempty" jsonschema:"where to write the report file"`
}

// ReportInput is the input schema for the last_report tool.
type ReportInput struct {
	Path string `json:"path,omitempty" jsonschema:"report file to read; defaults to the configured output path"`
}

// ReportOutput is the output schema shared by both tools.
type ReportOutput struct {
	RunID          string                 `json:"run_id,omitempty"`
	Outcome        domain.ParseOutcome    `json:"outcome"`
	Description    string                 `json:"description"`
	Summary        domain.AnalysisSummary `json:"summary"`
	ScoreBand      string                 `json:"score_band"`
	Risks          []domain.RiskFinding   `json:"risks"`
	Timeline       []domain.TimelineEntry `json:"timeline"`
	MitigationPlan []string               `json:"mitigation_plan,omitempty"`
	MissingKeys    []string               `json:"missing_keys,omitempty"`
	Warnings       []string               `json:"warnings,omitempty"`
	ReducedContext bool                   `json:"reduced_context"`
	RetrievedCount int                    `json:"retrieved_count"`
	Skipped        []string               `json:"skipped,omitempty"`
	OutputPath     string                 `json:"output_path,omitempty"`

	// Partial is the decoded reply as-is when required sections are missing.
	Partial map[string]any `json:"partial,omitempty"`

	// RawResponse is set only when the model reply held no usable structure.
	RawResponse string `json:"raw_response,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_procurement_risk",
		Description: "Analyse a procurement document for risks against a risk taxonomy, " +
			"using historical procurement records as context. Writes and returns the report.",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "last_report",
		Description: "Read the most recently written risk report",
	}, s.handleLastReport)
}

// handleAnalyze handles the analyze_procurement_risk tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	report, err := s.ports.Analyzer.AnalyzeFolders(ctx, driving.FolderRequest{
		APIKey:        s.ports.APIKey,
		Query:         input.Query,
		HistoricalDir: input.HistoricalDir,
		TaxonomyDir:   input.TaxonomyDir,
		TargetDir:     input.TargetDir,
		OutputPath:    input.OutputPath,
	})
	if err != nil {
		var aerr *domain.AnalysisError
		if errors.As(err, &aerr) {
			return nil, ReportOutput{}, fmt.Errorf("%s error: %w", aerr.Kind, err)
		}
		return nil, ReportOutput{}, err
	}

	output := toReportOutput(report.ParseResult, s.ports.Reports.Band)
	output.RunID = report.RunID
	output.ReducedContext = report.ReducedContext
	output.RetrievedCount = report.RetrievedCount
	output.OutputPath = report.OutputPath
	for _, load := range report.Loads {
		for _, skipped := range load.Skipped {
			output.Skipped = append(output.Skipped, skipped.Path+": "+skipped.Reason)
		}
	}

	return nil, output, nil
}

// handleLastReport handles the last_report tool invocation.
func (s *Server) handleLastReport(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ReportInput,
) (*mcp.CallToolResult, ReportOutput, error) {
	path := input.Path
	if path == "" {
		path = domain.DefaultOutputPath
		if s.ports.Settings != nil {
			settings, err := s.ports.Settings.Get()
			if err != nil {
				return nil, ReportOutput{}, fmt.Errorf("reading settings: %w", err)
			}
			path = settings.Paths.Output
		}
	}

	result, err := s.ports.Reports.Read(path)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("reading report: %w", err)
	}

	output := toReportOutput(result, s.ports.Reports.Band)
	output.OutputPath = path
	return nil, output, nil
}

func toReportOutput(pr domain.ParseResult, band func(int) string) ReportOutput {
	output := ReportOutput{
		Outcome:        pr.Outcome,
		Description:    pr.Outcome.Description(),
		Summary:        pr.Result.Summary,
		ScoreBand:      band(pr.Result.Summary.RiskScore),
		Risks:          pr.Result.Risks,
		Timeline:       pr.Result.Timeline,
		MitigationPlan: pr.Result.MitigationPlan(),
		MissingKeys:    pr.MissingKeys,
		Warnings:       pr.Warnings,
		Partial:        pr.Partial,
	}
	if !pr.Outcome.IsStructured() {
		output.RawResponse = pr.Result.RawResponse
	}
	return output
}
