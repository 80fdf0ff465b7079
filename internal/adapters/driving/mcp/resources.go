package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for riskanalyzer resources.
	uriScheme = "riskanalyzer://"

	recentRunsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent analysis runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "One analysis run from the run ledger",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// runInfo is the JSON shape of one ledger entry.
type runInfo struct {
	ID             string `json:"id"`
	StartedAt      string `json:"started_at"`
	FinishedAt     string `json:"finished_at"`
	Query          string `json:"query"`
	Outcome        string `json:"outcome,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	HighCount      int    `json:"high_count"`
	MediumCount    int    `json:"medium_count"`
	LowCount       int    `json:"low_count"`
	RiskScore      int    `json:"risk_score"`
	ReducedContext bool   `json:"reduced_context"`
	OutputPath     string `json:"output_path,omitempty"`
}

func toRunInfo(r *domain.RunRecord) runInfo {
	return runInfo{
		ID:             r.ID,
		StartedAt:      r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:     r.FinishedAt.UTC().Format(time.RFC3339),
		Query:          r.Query,
		Outcome:        string(r.Outcome),
		ErrorKind:      string(r.ErrorKind),
		ErrorMessage:   r.ErrorMessage,
		HighCount:      r.HighCount,
		MediumCount:    r.MediumCount,
		LowCount:       r.LowCount,
		RiskScore:      r.RiskScore,
		ReducedContext: r.ReducedContext,
		OutputPath:     r.OutputPath,
	}
}

// handleRunsResource returns the recent runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.History.Recent(ctx, recentRunsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = toRunInfo(&runs[i])
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleRunResource returns one run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	data, err := json.MarshalIndent(toRunInfo(run), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like riskanalyzer://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
