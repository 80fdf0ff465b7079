package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

const validPayload = `{
  "summary": {"high_count": 9, "medium_count": 0, "low_count": 0,
              "budget_variance": "$200K over budget", "schedule_variance": "+15 days", "risk_score": 88},
  "risks": [
    {"type": "Cost", "title": "Budget overrun", "severity": "High", "confidence": 90,
     "key_data": "$200K over budget", "mitigation": "Renegotiate contract"},
    {"type": "Schedule", "title": "Supplier delay", "severity": "Medium", "confidence": "60%",
     "key_data": "Supplier delayed 15 days", "mitigation": "Add a backup supplier"}
  ],
  "timeline": [
    {"task": "Delivery", "planned_start": "2025-01-01", "planned_end": "2025-02-01",
     "actual_start": "2025-01-01", "actual_end": "2025-02-16", "risk_label": "Supplier delay"}
  ]
}`

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"crlf", "```json\r\n{\"a\":1}\r\n```", `{"a":1}`},
		{"only leading", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

func TestStripCodeFences_Idempotent(t *testing.T) {
	once := StripCodeFences("```json\n" + validPayload + "\n```")
	assert.Equal(t, once, StripCodeFences(once))
}

func TestResponseParser_Parse_Valid(t *testing.T) {
	res := NewResponseParser().Parse(validPayload)

	require.Equal(t, domain.OutcomeParsed, res.Outcome)
	assert.Empty(t, res.MissingKeys)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, validPayload, res.Result.RawResponse)

	require.Len(t, res.Result.Risks, 2)
	assert.Equal(t, "Budget overrun", res.Result.Risks[0].Title)
	assert.Equal(t, domain.SeverityHigh, res.Result.Risks[0].Severity)
	require.NotNil(t, res.Result.Risks[1].Confidence)
	assert.Equal(t, 60, *res.Result.Risks[1].Confidence)

	require.Len(t, res.Result.Timeline, 1)
	assert.Equal(t, "2025-02-16", res.Result.Timeline[0].ActualEnd)
	assert.Equal(t, "$200K over budget", res.Result.Summary.BudgetVariance)
}

func TestResponseParser_Parse_FencedEqualsUnfenced(t *testing.T) {
	p := NewResponseParser()
	plain := p.Parse(validPayload)

	for _, fenced := range []string{
		"```json\n" + validPayload + "\n```",
		"```\n" + validPayload + "\n```",
	} {
		got := p.Parse(fenced)
		require.Equal(t, domain.OutcomeParsed, got.Outcome)
		assert.Equal(t, fenced, got.Result.RawResponse)

		got.Result.RawResponse = plain.Result.RawResponse
		assert.Equal(t, plain.Result, got.Result)
	}
}

func TestResponseParser_Parse_SurroundingNoise(t *testing.T) {
	raw := "Here is the analysis you asked for:\n" + validPayload + "\nLet me know if you need more."

	res := NewResponseParser().Parse(raw)

	assert.Equal(t, domain.OutcomeParsed, res.Outcome)
	assert.Len(t, res.Result.Risks, 2)
	assert.Equal(t, raw, res.Result.RawResponse)
}

func TestResponseParser_Parse_MissingKeys(t *testing.T) {
	raw := `{"summary": {"budget_variance": "none"}, "risks": []}`

	res := NewResponseParser().Parse(raw)

	assert.Equal(t, domain.OutcomeIncomplete, res.Outcome)
	assert.Equal(t, []string{"timeline"}, res.MissingKeys)
	assert.Equal(t, raw, res.Result.RawResponse)
	assert.NotNil(t, res.Result.Timeline)
	assert.Contains(t, res.Partial, "summary")
	assert.NotContains(t, res.Partial, "timeline")
	assert.Equal(t, "none", res.Result.Summary.BudgetVariance)
}

func TestResponseParser_Parse_AllKeysMissing(t *testing.T) {
	res := NewResponseParser().Parse(`{"analysis": "looks risky"}`)

	assert.Equal(t, domain.OutcomeIncomplete, res.Outcome)
	assert.Equal(t, RequiredKeys, res.MissingKeys)
	assert.Equal(t, "looks risky", res.Partial["analysis"])
}

func TestResponseParser_Parse_InvalidJSON(t *testing.T) {
	raw := "{not valid json"

	res := NewResponseParser().Parse(raw)

	assert.Equal(t, domain.OutcomeInvalidJSON, res.Outcome)
	assert.Equal(t, domain.EmptyResult(raw), res.Result)
	assert.NotEmpty(t, res.Warnings)
}

func TestResponseParser_Parse_NoJSON(t *testing.T) {
	raw := "I cannot help with that request."

	res := NewResponseParser().Parse(raw)

	assert.Equal(t, domain.OutcomeNoJSON, res.Outcome)
	assert.Equal(t, domain.EmptyResult(raw), res.Result)
	assert.Nil(t, res.Partial)
}

func TestResponseParser_Parse_Empty(t *testing.T) {
	res := NewResponseParser().Parse("")

	assert.Equal(t, domain.OutcomeNoJSON, res.Outcome)
	assert.NotNil(t, res.Result.Risks)
	assert.NotNil(t, res.Result.Timeline)
}

func TestResponseParser_Parse_LenientFields(t *testing.T) {
	raw := `{
	  "summary": {"budget_variance": 700000, "schedule_variance": null},
	  "risks": [
	    {"type": "Cost", "title": "Overrun", "severity": "high", "confidence": "87.6"},
	    "not an object",
	    {"type": "Quality", "title": "Defects", "severity": "Critical", "confidence": "very"},
	    {"severity": "Low", "confidence": 140}
	  ],
	  "timeline": [{"task": "Build", "planned_start": "01/02/2025"}]
	}`

	res := NewResponseParser().Parse(raw)

	require.Equal(t, domain.OutcomeParsed, res.Outcome)
	assert.Equal(t, "700000", res.Result.Summary.BudgetVariance)
	assert.Empty(t, res.Result.Summary.ScheduleVariance)

	require.Len(t, res.Result.Risks, 3)
	require.NotNil(t, res.Result.Risks[0].Confidence)
	assert.Equal(t, 88, *res.Result.Risks[0].Confidence)
	assert.Nil(t, res.Result.Risks[1].Confidence)
	assert.Equal(t, domain.Severity("Critical"), res.Result.Risks[1].Severity)

	warnings := res.Warnings
	assert.Contains(t, warnings, "risks[1]: not an object, skipped")
	assert.Contains(t, warnings, `risks[2]: unrecognised severity "Critical"`)
	assert.Contains(t, warnings, "risks[3]: Type fails required")
	assert.Contains(t, warnings, "risks[3]: confidence 140 outside 0-100, clamped to 100")
	assert.Contains(t, warnings, "timeline[0]: PlannedStart fails datetime=2006-01-02")
}

func TestResponseParser_Parse_ConfidenceClamped(t *testing.T) {
	raw := `{"summary": {}, "timeline": [], "risks": [
	  {"type": "Cost", "title": "Huge", "severity": "High", "confidence": 1e30},
	  {"type": "Cost", "title": "Over", "severity": "High", "confidence": 150},
	  {"type": "Cost", "title": "Negative", "severity": "High", "confidence": "-100%"},
	  {"type": "Cost", "title": "Real", "severity": "High", "confidence": 100},
	  {"type": "Cost", "title": "NaN", "severity": "Low", "confidence": "NaN"}
	]}`

	res := NewResponseParser().Parse(raw)

	require.Len(t, res.Result.Risks, 5)
	for i, want := range []int{100, 100, 0, 100} {
		require.NotNil(t, res.Result.Risks[i].Confidence)
		assert.Equal(t, want, *res.Result.Risks[i].Confidence, "risk %d", i)
	}
	assert.Nil(t, res.Result.Risks[4].Confidence)
	assert.Contains(t, res.Warnings, "risks[0]: confidence 1e+30 outside 0-100, clamped to 100")
	assert.Contains(t, res.Warnings, "risks[1]: confidence 150 outside 0-100, clamped to 100")
	assert.Contains(t, res.Warnings, "risks[2]: confidence -100% outside 0-100, clamped to 0")

	ApplyScoring(&res.Result)
	// The unparseable confidence is treated as omitted and counts as 100.
	assert.Equal(t, 31, res.Result.Summary.RiskScore)
}

func TestResponseParser_Parse_WrongShapes(t *testing.T) {
	res := NewResponseParser().Parse(`{"summary": "fine", "risks": {}, "timeline": 3}`)

	assert.Equal(t, domain.OutcomeParsed, res.Outcome)
	assert.Empty(t, res.Result.Risks)
	assert.NotNil(t, res.Result.Risks)
	assert.Empty(t, res.Result.Timeline)
	assert.ElementsMatch(t, []string{
		"summary: not an object",
		"risks: not an array",
		"timeline: not an array",
	}, res.Warnings)
}

func TestResponseParser_Parse_TrailingSecondObjectIgnored(t *testing.T) {
	raw := `{"summary": {}, "risks": [], "timeline": []} {"risks": [{"title": "ignored"}]}`

	res := NewResponseParser().Parse(raw)

	assert.Equal(t, domain.OutcomeParsed, res.Outcome)
	assert.Empty(t, res.Result.Risks)
}
