package domain

import "strings"

// Severity is the generator-assigned severity of a finding.
// Values outside the known set are preserved verbatim and weigh nothing.
type Severity string

// Recognised severities.
const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Canonical returns the recognised severity matching s case-insensitively,
// or "" when s is not recognised.
func (s Severity) Canonical() Severity {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return ""
	}
}

// RiskFinding is one risk entry reported by the generator.
type RiskFinding struct {
	Type     string   `json:"type" validate:"required"`
	Title    string   `json:"title" validate:"required"`
	Severity Severity `json:"severity"`

	// Confidence is a percentage. Nil means the generator omitted it.
	Confidence *int `json:"confidence,omitempty" validate:"omitempty,min=0,max=100"`

	KeyData    string `json:"key_data"`
	Mitigation string `json:"mitigation"`
}

// ConfidenceOrDefault returns the confidence clamped to [0, 100], treating
// an omitted value as 100.
func (f RiskFinding) ConfidenceOrDefault() int {
	if f.Confidence == nil {
		return 100
	}
	return max(0, min(*f.Confidence, 100))
}

// AnalysisSummary holds the aggregate view of a run.
// The counts and RiskScore are recomputed from the findings; the variance
// fields are generator text passed through unchanged.
type AnalysisSummary struct {
	HighCount        int    `json:"high_count"`
	MediumCount      int    `json:"medium_count"`
	LowCount         int    `json:"low_count"`
	BudgetVariance   string `json:"budget_variance"`
	ScheduleVariance string `json:"schedule_variance"`
	RiskScore        int    `json:"risk_score"`
}

// TimelineEntry describes one project phase. Dates are ISO yyyy-mm-dd strings.
type TimelineEntry struct {
	Task         string `json:"task" validate:"required"`
	PlannedStart string `json:"planned_start" validate:"omitempty,datetime=2006-01-02"`
	PlannedEnd   string `json:"planned_end" validate:"omitempty,datetime=2006-01-02"`
	ActualStart  string `json:"actual_start" validate:"omitempty,datetime=2006-01-02"`
	ActualEnd    string `json:"actual_end" validate:"omitempty,datetime=2006-01-02"`
	RiskLabel    string `json:"risk_label"`
}

// AnalysisResult is the structured outcome of one analysis run.
// Its JSON encoding is the canonical output artifact.
type AnalysisResult struct {
	Summary     AnalysisSummary `json:"summary"`
	Risks       []RiskFinding   `json:"risks"`
	Timeline    []TimelineEntry `json:"timeline"`
	RawResponse string          `json:"raw_response"`
}

// EmptyResult returns the structurally valid empty core paired with raw.
func EmptyResult(raw string) AnalysisResult {
	return AnalysisResult{
		Risks:       []RiskFinding{},
		Timeline:    []TimelineEntry{},
		RawResponse: raw,
	}
}

// MitigationPlan returns the distinct non-empty mitigations in finding order.
func (r AnalysisResult) MitigationPlan() []string {
	seen := make(map[string]bool, len(r.Risks))
	var plan []string
	for _, f := range r.Risks {
		m := strings.TrimSpace(f.Mitigation)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		plan = append(plan, m)
	}
	return plan
}

// ParseOutcome labels how far the response parser got with the raw text.
type ParseOutcome string

// Parse outcomes, one per parser stage that can fail.
const (
	// OutcomeParsed means the payload parsed and carried every required key.
	OutcomeParsed ParseOutcome = "parsed"

	// OutcomeIncomplete means the payload parsed but lacked required keys.
	OutcomeIncomplete ParseOutcome = "incomplete"

	// OutcomeInvalidJSON means a '{' was found but the payload did not parse.
	OutcomeInvalidJSON ParseOutcome = "invalid_json"

	// OutcomeNoJSON means the text contained no '{' at all.
	OutcomeNoJSON ParseOutcome = "no_json"
)

// IsStructured reports whether the outcome produced a parsed JSON object.
func (o ParseOutcome) IsStructured() bool {
	return o == OutcomeParsed || o == OutcomeIncomplete
}

// Description returns a human-readable explanation of the outcome.
func (o ParseOutcome) Description() string {
	switch o {
	case OutcomeParsed:
		return "Structured response parsed"
	case OutcomeIncomplete:
		return "Response parsed but required sections are missing; inspect the raw response"
	case OutcomeInvalidJSON:
		return "Response contained malformed JSON; inspect the raw response"
	case OutcomeNoJSON:
		return "Response contained no JSON object; showing raw text only"
	default:
		return "Unknown"
	}
}

// ParseResult is the response parser's tagged outcome. It always carries
// the raw text and a structurally valid Result, whatever stage failed.
type ParseResult struct {
	Outcome ParseOutcome

	// Result holds whatever could be decoded; empty but valid on failure.
	Result AnalysisResult

	// Partial is the decoded object as-is when Outcome is OutcomeIncomplete.
	Partial map[string]any

	// MissingKeys lists required top-level keys absent from the payload.
	MissingKeys []string

	// Warnings lists schema violations found inside an otherwise parsed payload.
	Warnings []string
}

// AnalysisReport is what the orchestrator hands to the presentation layer.
type AnalysisReport struct {
	RunID string
	ParseResult

	// ReducedContext is true when no historical context reached the prompt.
	ReducedContext bool

	// RetrievedCount is the number of unique documents retrieved.
	RetrievedCount int

	// OutputPath is where the artifact was written.
	OutputPath string
}
