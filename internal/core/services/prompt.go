package services

import (
	"strings"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Prompt template placeholders.
const (
	PlaceholderRetrieved = "{retrieved_docs}"
	PlaceholderTaxonomy  = "{risks_document}"
	PlaceholderTarget    = "{target_document}"
)

// DefaultRiskAnalysisPrompt instructs the generator to classify risks and
// answer with a single JSON object. Field names and enumerations match
// domain.AnalysisResult exactly.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultRiskAnalysisPrompt = `You are a procurement risk assessment AI. Evaluate the risks associated with the target document based on the retrieved knowledge and the risks detailed in the risks document.

### Target Document:
{target_document}

### Risks Document:
{risks_document}

### Retrieved Risk-Related Documents:
{retrieved_docs}

### Task:
1. Analyze the target document and classify each risk into one of the categories detailed in the risks document.
2. For every risk give a severity, a confidence percentage, the key data supporting it and a mitigation action.
3. Estimate the budget and schedule variance and lay out the project timeline with any risk affecting each phase.

### Output format:
Respond with ONLY a single JSON object with exactly these three top-level keys: "summary", "risks", "timeline".
Do not add prose, explanations or markdown code fences before or after the JSON.

{
  "summary": {
    "high_count": <integer>,
    "medium_count": <integer>,
    "low_count": <integer>,
    "budget_variance": "<text, e.g. $700,000 overrun>",
    "schedule_variance": "<text, e.g. +15 days late>",
    "risk_score": <integer 0-100>
  },
  "risks": [
    {
      "type": "<category from the risks document>",
      "title": "<short title>",
      "severity": "High" | "Medium" | "Low",
      "confidence": <integer 0-100>,
      "key_data": "<evidence from the target document>",
      "mitigation": "<recommended action>"
    }
  ],
  "timeline": [
    {
      "task": "<phase name>",
      "planned_start": "YYYY-MM-DD",
      "planned_end": "YYYY-MM-DD",
      "actual_start": "YYYY-MM-DD",
      "actual_end": "YYYY-MM-DD",
      "risk_label": "<risk affecting this phase, or None>"
    }
  ]
}`

// PromptBuilder assembles the analysis prompt from a template.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder creates a builder using the stored risk analysis template.
// A nil store, a load error, or a template missing any placeholder falls
// back to DefaultRiskAnalysisPrompt.
func NewPromptBuilder(store driven.PromptStore) *PromptBuilder {
	return &PromptBuilder{template: loadTemplate(store)}
}

// NewPromptBuilderWithTemplate creates a builder around an explicit template.
func NewPromptBuilderWithTemplate(template string) *PromptBuilder {
	return &PromptBuilder{template: template}
}

// Template returns the template in use.
func (b *PromptBuilder) Template() string {
	return b.template
}

// Build substitutes the three content variables into the template.
// Substitution is a single pass, so placeholder text occurring inside the
// documents themselves is left untouched.
func (b *PromptBuilder) Build(retrieved, taxonomy, target string) string {
	return RenderPrompt(b.template, map[string]string{
		PlaceholderRetrieved: retrieved,
		PlaceholderTaxonomy:  taxonomy,
		PlaceholderTarget:    target,
	})
}

// RenderPrompt replaces each placeholder key in template with its value.
func RenderPrompt(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func loadTemplate(store driven.PromptStore) string {
	if store == nil {
		return DefaultRiskAnalysisPrompt
	}
	tmpl, err := store.Load(driven.PromptRiskAnalysis)
	if err != nil {
		logger.Warn("Could not load prompt %s, using default: %v", driven.PromptRiskAnalysis, err)
		return DefaultRiskAnalysisPrompt
	}
	for _, p := range []string{PlaceholderRetrieved, PlaceholderTaxonomy, PlaceholderTarget} {
		if !strings.Contains(tmpl, p) {
			logger.Warn("Prompt %s lacks placeholder %s, using default", driven.PromptRiskAnalysis, p)
			return DefaultRiskAnalysisPrompt
		}
	}
	return tmpl
}
