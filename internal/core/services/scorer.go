package services

import "github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"

// Score bounds.
const (
	MinRiskScore = 0
	MaxRiskScore = 100
)

// severityWeights gives each recognised severity its score weight.
// Unrecognised severities weigh 0.
var severityWeights = map[domain.Severity]int{
	domain.SeverityHigh:   10,
	domain.SeverityMedium: 5,
	domain.SeverityLow:    1,
}

// SeverityWeight returns the weight of s, matched case-insensitively.
func SeverityWeight(s domain.Severity) int {
	return severityWeights[s.Canonical()]
}

// ScoreRisks computes floor(sum(weight * confidence/100)) clamped to [0, 100].
// Omitted confidence counts as 100. Integer arithmetic keeps the floor exact.
func ScoreRisks(risks []domain.RiskFinding) int {
	total := 0
	for _, f := range risks {
		total += SeverityWeight(f.Severity) * f.ConfidenceOrDefault()
	}
	if total <= 0 {
		return MinRiskScore
	}
	return min(total/100, MaxRiskScore)
}

// TallySeverities counts findings per recognised severity.
func TallySeverities(risks []domain.RiskFinding) (high, medium, low int) {
	for _, f := range risks {
		switch f.Severity.Canonical() {
		case domain.SeverityHigh:
			high++
		case domain.SeverityMedium:
			medium++
		case domain.SeverityLow:
			low++
		}
	}
	return high, medium, low
}

// ApplyScoring overwrites the counts and risk score of result.Summary with
// values recomputed from result.Risks. Variance text is left unchanged.
func ApplyScoring(result *domain.AnalysisResult) {
	result.Summary.HighCount, result.Summary.MediumCount, result.Summary.LowCount = TallySeverities(result.Risks)
	result.Summary.RiskScore = ScoreRisks(result.Risks)
}

// ScoreBand names the band a score falls in: Low, Moderate or High.
func ScoreBand(score int) string {
	switch {
	case score < 34:
		return "Low"
	case score < 67:
		return "Moderate"
	default:
		return "High"
	}
}
