package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driving/cli/styles"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

// renderResult prints a parsed result as the summary panel, the risk
// explorer, the mitigation plan and the timeline. Unstructured outcomes
// print the raw generator text verbatim.
func renderResult(w io.Writer, st *styles.Styles, pr domain.ParseResult, band func(int) string) {
	fmt.Fprintln(w, st.Title.Render("Procurement Risk Report"))
	fmt.Fprintln(w)

	if !pr.Outcome.IsStructured() {
		fmt.Fprintln(w, st.Severity(domain.SeverityMedium).Render("Notice: "+pr.Outcome.Description()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, pr.Result.RawResponse)
		return
	}

	if pr.Outcome != domain.OutcomeParsed {
		fmt.Fprintln(w, st.Severity(domain.SeverityMedium).Render("Notice: "+pr.Outcome.Description()))
		if len(pr.MissingKeys) > 0 {
			fmt.Fprintf(w, "Missing sections: %s\n", strings.Join(pr.MissingKeys, ", "))
		}
		fmt.Fprintln(w)
	}

	renderSummary(w, st, pr.Result.Summary, band)
	fmt.Fprintln(w)
	renderRisks(w, st, pr.Result.Risks)
	renderMitigations(w, st, pr.Result.MitigationPlan())
	renderTimeline(w, st, pr.Result.Timeline)
	renderWarnings(w, st, pr.Warnings)
}

func renderSummary(w io.Writer, st *styles.Styles, s domain.AnalysisSummary, band func(int) string) {
	label := band(s.RiskScore)

	var b strings.Builder
	b.WriteString(st.Subtitle.Render("Summary") + "\n")
	fmt.Fprintf(&b, "%s %d   %s %d   %s %d\n",
		st.Severity(domain.SeverityHigh).Render("High:"), s.HighCount,
		st.Severity(domain.SeverityMedium).Render("Medium:"), s.MediumCount,
		st.Severity(domain.SeverityLow).Render("Low:"), s.LowCount)
	fmt.Fprintf(&b, "Budget variance:   %s\n", orDash(s.BudgetVariance))
	fmt.Fprintf(&b, "Schedule variance: %s\n", orDash(s.ScheduleVariance))
	fmt.Fprintf(&b, "Risk score:        %d/100", s.RiskScore)
	if label != "" {
		b.WriteString(" " + st.Band(label).Render("("+label+")"))
	}

	fmt.Fprintln(w, st.Panel.Render(b.String()))
}

func renderRisks(w io.Writer, st *styles.Styles, risks []domain.RiskFinding) {
	fmt.Fprintln(w, st.Subtitle.Render("Risks"))
	if len(risks) == 0 {
		fmt.Fprintln(w, st.Muted.Render("  No risks reported."))
		fmt.Fprintln(w)
		return
	}

	for i := range risks {
		r := risks[i]
		sev := string(r.Severity)
		if sev == "" {
			sev = "Unrated"
		}
		fmt.Fprintf(w, "  [%d] %s %s (%s), confidence %d%%\n",
			i+1, st.Severity(r.Severity).Render("["+sev+"]"), r.Title, r.Type, r.ConfidenceOrDefault())
		if r.KeyData != "" {
			fmt.Fprintf(w, "      %s\n", st.Muted.Render(r.KeyData))
		}
	}
	fmt.Fprintln(w)
}

func renderMitigations(w io.Writer, st *styles.Styles, plan []string) {
	if len(plan) == 0 {
		return
	}
	fmt.Fprintln(w, st.Subtitle.Render("Mitigation Plan"))
	for i, m := range plan {
		fmt.Fprintf(w, "  %d. %s\n", i+1, m)
	}
	fmt.Fprintln(w)
}

func renderTimeline(w io.Writer, st *styles.Styles, timeline []domain.TimelineEntry) {
	if len(timeline) == 0 {
		return
	}
	fmt.Fprintln(w, st.Subtitle.Render("Timeline"))
	for _, e := range timeline {
		fmt.Fprintf(w, "  %s\n", e.Task)
		fmt.Fprintf(w, "      planned %s .. %s\n", orDash(e.PlannedStart), orDash(e.PlannedEnd))
		if e.ActualStart != "" || e.ActualEnd != "" {
			fmt.Fprintf(w, "      actual  %s .. %s\n", orDash(e.ActualStart), orDash(e.ActualEnd))
		}
		if e.RiskLabel != "" {
			fmt.Fprintf(w, "      %s\n", st.Muted.Render("risk: "+e.RiskLabel))
		}
	}
	fmt.Fprintln(w)
}

func renderWarnings(w io.Writer, st *styles.Styles, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, st.Severity(domain.SeverityMedium).Render("Warnings"))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
	fmt.Fprintln(w)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
