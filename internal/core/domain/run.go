package domain

import "time"

// RunRecord is one entry of the analysis run ledger.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Query      string

	// Outcome is the parse outcome, or "" when the run failed before parsing.
	Outcome ParseOutcome

	// ErrorKind and ErrorMessage are set when the run failed.
	ErrorKind    ErrorKind
	ErrorMessage string

	HighCount   int
	MediumCount int
	LowCount    int
	RiskScore   int

	ReducedContext bool
	OutputPath     string
}

// Succeeded reports whether the run produced a report.
func (r RunRecord) Succeeded() bool {
	return r.ErrorKind == ""
}
