package mcp

import (
	"context"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// mockAnalyzer is a mock implementation of driving.FolderAnalyzer.
type mockAnalyzer struct {
	report *driving.FolderReport
	err    error
	got    driving.FolderRequest
}

func (m *mockAnalyzer) AnalyzeFolders(_ context.Context, req driving.FolderRequest) (*driving.FolderReport, error) {
	m.got = req
	return m.report, m.err
}

// mockReportReader is a mock implementation of driving.ReportReader.
type mockReportReader struct {
	result   domain.ParseResult
	err      error
	readPath string
}

func (m *mockReportReader) Read(path string) (domain.ParseResult, error) {
	m.readPath = path
	return m.result, m.err
}

func (m *mockReportReader) Band(score int) string {
	if score >= 67 {
		return "High"
	}
	return "Low"
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Entries() ([]driving.SettingEntry, error) {
	return nil, m.err
}

// mockHistoryService is a mock implementation of driving.RunHistoryService.
type mockHistoryService struct {
	runs []domain.RunRecord
	run  *domain.RunRecord
	err  error
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.RunRecord, error) {
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.RunRecord, error) {
	return m.run, m.err
}

func intPtr(v int) *int {
	return &v
}

func parsedResult() domain.ParseResult {
	return domain.ParseResult{
		Outcome: domain.OutcomeParsed,
		Result: domain.AnalysisResult{
			Summary: domain.AnalysisSummary{HighCount: 1, LowCount: 1, RiskScore: 11},
			Risks: []domain.RiskFinding{
				{Type: "Budget", Title: "Cost overrun", Severity: domain.SeverityHigh,
					Confidence: intPtr(80), Mitigation: "Fixed-price contract"},
				{Type: "Schedule", Title: "Late delivery", Severity: domain.SeverityLow,
					Mitigation: "Fixed-price contract"},
			},
			Timeline: []domain.TimelineEntry{{Task: "Tender", PlannedStart: "2024-01-01"}},
		},
	}
}
