package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// RequiredKeys are the top-level keys every analysis payload must carry.
var RequiredKeys = []string{"summary", "risks", "timeline"}

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*(\r?\n|$)")
	trailingFence = regexp.MustCompile("(^|\r?\n)[ \t]*```[ \t]*$")
)

// StripCodeFences removes one leading and one trailing markdown code fence,
// with or without a language tag, and trims surrounding whitespace.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ResponseParser turns untrusted generator text into a ParseResult.
// Each stage (fence strip, locate, decode, key check) has its own outcome;
// Parse never fails.
type ResponseParser struct {
	validate *validator.Validate
}

// NewResponseParser creates a parser.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Parse interprets raw as "a JSON object, possibly surrounded by noise".
func (p *ResponseParser) Parse(raw string) domain.ParseResult {
	text := StripCodeFences(raw)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		logger.Warn("Generator response contains no JSON object")
		return domain.ParseResult{Outcome: domain.OutcomeNoJSON, Result: domain.EmptyResult(raw)}
	}

	// The first complete value after '{' is decoded strictly; trailing
	// noise after it is ignored.
	var object json.RawMessage
	dec := json.NewDecoder(strings.NewReader(text[start:]))
	if err := dec.Decode(&object); err != nil {
		logger.Warn("Generator response is not valid JSON: %v", err)
		return domain.ParseResult{
			Outcome:  domain.OutcomeInvalidJSON,
			Result:   domain.EmptyResult(raw),
			Warnings: []string{"invalid JSON: " + err.Error()},
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(object, &fields); err != nil {
		return domain.ParseResult{
			Outcome:  domain.OutcomeInvalidJSON,
			Result:   domain.EmptyResult(raw),
			Warnings: []string{"invalid JSON: " + err.Error()},
		}
	}

	res := domain.ParseResult{Outcome: domain.OutcomeParsed, Result: domain.EmptyResult(raw)}
	for _, key := range RequiredKeys {
		if _, ok := fields[key]; !ok {
			res.MissingKeys = append(res.MissingKeys, key)
		}
	}

	if msg, ok := fields["summary"]; ok {
		res.Result.Summary, res.Warnings = p.decodeSummary(msg, res.Warnings)
	}
	if msg, ok := fields["risks"]; ok {
		res.Result.Risks, res.Warnings = p.decodeRisks(msg, res.Warnings)
	}
	if msg, ok := fields["timeline"]; ok {
		res.Result.Timeline, res.Warnings = p.decodeTimeline(msg, res.Warnings)
	}

	if len(res.MissingKeys) > 0 {
		logger.Warn("Generator response missing keys: %s", strings.Join(res.MissingKeys, ", "))
		res.Outcome = domain.OutcomeIncomplete
		var partial map[string]any
		if err := json.Unmarshal(object, &partial); err == nil {
			res.Partial = partial
		}
	}

	return res
}

type wireSummary struct {
	BudgetVariance   any `json:"budget_variance"`
	ScheduleVariance any `json:"schedule_variance"`
}

type wireFinding struct {
	Type       any `json:"type"`
	Title      any `json:"title"`
	Severity   any `json:"severity"`
	Confidence any `json:"confidence"`
	KeyData    any `json:"key_data"`
	Mitigation any `json:"mitigation"`
}

type wireTimelineEntry struct {
	Task         any `json:"task"`
	PlannedStart any `json:"planned_start"`
	PlannedEnd   any `json:"planned_end"`
	ActualStart  any `json:"actual_start"`
	ActualEnd    any `json:"actual_end"`
	RiskLabel    any `json:"risk_label"`
}

func (p *ResponseParser) decodeSummary(msg json.RawMessage, warnings []string) (domain.AnalysisSummary, []string) {
	var w wireSummary
	if err := json.Unmarshal(msg, &w); err != nil {
		return domain.AnalysisSummary{}, append(warnings, "summary: not an object")
	}
	return domain.AnalysisSummary{
		BudgetVariance:   textOf(w.BudgetVariance),
		ScheduleVariance: textOf(w.ScheduleVariance),
	}, warnings
}

func (p *ResponseParser) decodeRisks(msg json.RawMessage, warnings []string) ([]domain.RiskFinding, []string) {
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return []domain.RiskFinding{}, append(warnings, "risks: not an array")
	}

	risks := make([]domain.RiskFinding, 0, len(items))
	for i, item := range items {
		var w wireFinding
		if err := json.Unmarshal(item, &w); err != nil {
			warnings = append(warnings, fmt.Sprintf("risks[%d]: not an object, skipped", i))
			continue
		}
		f := domain.RiskFinding{
			Type:       textOf(w.Type),
			Title:      textOf(w.Title),
			Severity:   domain.Severity(strings.TrimSpace(textOf(w.Severity))),
			KeyData:    textOf(w.KeyData),
			Mitigation: textOf(w.Mitigation),
		}
		if w.Confidence != nil {
			c, clamped, err := percentOf(w.Confidence)
			switch {
			case err != nil:
				warnings = append(warnings, fmt.Sprintf("risks[%d]: confidence %v is not a number", i, w.Confidence))
			case clamped:
				warnings = append(warnings, fmt.Sprintf("risks[%d]: confidence %v outside 0-100, clamped to %d", i, w.Confidence, c))
				f.Confidence = &c
			default:
				f.Confidence = &c
			}
		}
		if f.Severity.Canonical() == "" {
			warnings = append(warnings, fmt.Sprintf("risks[%d]: unrecognised severity %q", i, f.Severity))
		}
		warnings = append(warnings, p.violations(fmt.Sprintf("risks[%d]", i), f)...)
		risks = append(risks, f)
	}
	return risks, warnings
}

func (p *ResponseParser) decodeTimeline(msg json.RawMessage, warnings []string) ([]domain.TimelineEntry, []string) {
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return []domain.TimelineEntry{}, append(warnings, "timeline: not an array")
	}

	entries := make([]domain.TimelineEntry, 0, len(items))
	for i, item := range items {
		var w wireTimelineEntry
		if err := json.Unmarshal(item, &w); err != nil {
			warnings = append(warnings, fmt.Sprintf("timeline[%d]: not an object, skipped", i))
			continue
		}
		e := domain.TimelineEntry{
			Task:         textOf(w.Task),
			PlannedStart: textOf(w.PlannedStart),
			PlannedEnd:   textOf(w.PlannedEnd),
			ActualStart:  textOf(w.ActualStart),
			ActualEnd:    textOf(w.ActualEnd),
			RiskLabel:    textOf(w.RiskLabel),
		}
		warnings = append(warnings, p.violations(fmt.Sprintf("timeline[%d]", i), e)...)
		entries = append(entries, e)
	}
	return entries, warnings
}

// violations runs struct validation and renders each failure as a warning.
func (p *ResponseParser) violations(prefix string, v any) []string {
	err := p.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{prefix + ": " + err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: %s fails %s", prefix, fe.Field(), describeTag(fe)))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// textOf renders a decoded JSON scalar as text. Null becomes "".
func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// percentOf accepts 87, 87.4, "87" and "87%". The value is rounded and
// clamped to [0, 100] before conversion; clamped reports whether it was
// out of range.
func percentOf(v any) (pct int, clamped bool, err error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, err
		}
	default:
		return 0, false, fmt.Errorf("unsupported confidence type %T", v)
	}
	if math.IsNaN(f) {
		return 0, false, errors.New("confidence is NaN")
	}

	f = math.Round(f)
	switch {
	case f < 0:
		return 0, true, nil
	case f > 100:
		return 100, true, nil
	}
	return int(f), false, nil
}
