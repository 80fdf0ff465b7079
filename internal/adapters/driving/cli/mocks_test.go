package cli

import (
	"context"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// mockAnalyzer implements driving.FolderAnalyzer for testing.
type mockAnalyzer struct {
	report *driving.FolderReport
	err    error
	got    driving.FolderRequest
	calls  int
}

func (m *mockAnalyzer) AnalyzeFolders(_ context.Context, req driving.FolderRequest) (*driving.FolderReport, error) {
	m.calls++
	m.got = req
	return m.report, m.err
}

// mockReportReader implements driving.ReportReader for testing.
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
	switch {
	case score < 34:
		return "Low"
	case score < 67:
		return "Moderate"
	default:
		return "High"
	}
}

// mockHistoryService implements driving.RunHistoryService for testing.
type mockHistoryService struct {
	runs      []domain.RunRecord
	run       *domain.RunRecord
	err       error
	lastLimit int
}

func (m *mockHistoryService) Recent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.RunRecord, error) {
	return m.run, m.err
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	entries  []driving.SettingEntry
	err      error
	setKey   string
	setValue string
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.err
}

func (m *mockSettingsService) Entries() ([]driving.SettingEntry, error) {
	return m.entries, m.err
}

// setupServices installs s for the duration of a test and resets flag state.
func setupServices(s Services) func() {
	oldAnalyzer, oldReports, oldHistory, oldSettings := analyzer, reportReader, historyService, settingsService
	oldTerminal := stdinIsTerminal
	Configure(s)
	stdinIsTerminal = func() bool { return false }
	analyzeOpts = analyzeOptions{}
	historyLimit = 20
	return func() {
		analyzer, reportReader, historyService, settingsService = oldAnalyzer, oldReports, oldHistory, oldSettings
		stdinIsTerminal = oldTerminal
		analyzeOpts = analyzeOptions{}
	}
}

func intPtr(v int) *int {
	return &v
}

func sampleResult() domain.ParseResult {
	return domain.ParseResult{
		Outcome: domain.OutcomeParsed,
		Result: domain.AnalysisResult{
			Summary: domain.AnalysisSummary{
				HighCount: 1, MediumCount: 1, LowCount: 1, RiskScore: 16,
				BudgetVariance: "+12%", ScheduleVariance: "3 weeks late",
			},
			Risks: []domain.RiskFinding{
				{Type: "Budget", Title: "Cost overrun", Severity: domain.SeverityHigh,
					Confidence: intPtr(80), KeyData: "Steel prices up 20%", Mitigation: "Index-linked pricing"},
				{Type: "Schedule", Title: "Late delivery", Severity: domain.SeverityMedium,
					Mitigation: "Penalty clauses"},
				{Type: "Vendor", Title: "Single supplier", Severity: domain.SeverityLow,
					Mitigation: "Penalty clauses"},
			},
			Timeline: []domain.TimelineEntry{
				{Task: "Tender", PlannedStart: "2024-01-01", PlannedEnd: "2024-02-01", RiskLabel: "Medium"},
			},
		},
	}
}
