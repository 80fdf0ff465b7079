package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// previewRunes bounds the debug previews of prompt inputs.
const previewRunes = 500

// AnalysisConfig holds the collaborators of an AnalysisService.
type AnalysisConfig struct {
	// AI creates the embedding and generation services per run. Required.
	AI driven.AIServiceFactory

	// NewVectorIndex creates the per-run vector index. Required.
	NewVectorIndex driven.VectorIndexFactory

	// Prompts builds the generator prompt. Nil uses the built-in template.
	Prompts *PromptBuilder

	// Parser interprets the generator response. Nil creates a default parser.
	Parser *ResponseParser

	// Runs records the run ledger. Optional.
	Runs driven.RunStore

	// Settings tunes retrieval and generation.
	Settings domain.AnalysisSettings
}

// AnalysisService drives one retrieval-augmented risk analysis per call.
// Runs share no mutable state; each builds and discards its own index.
type AnalysisService struct {
	ai             driven.AIServiceFactory
	newVectorIndex driven.VectorIndexFactory
	prompts        *PromptBuilder
	parser         *ResponseParser
	runs           driven.RunStore
	settings       domain.AnalysisSettings
	now            func() time.Time
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(cfg AnalysisConfig) *AnalysisService {
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = NewPromptBuilderWithTemplate(DefaultRiskAnalysisPrompt)
	}
	parser := cfg.Parser
	if parser == nil {
		parser = NewResponseParser()
	}
	return &AnalysisService{
		ai:             cfg.AI,
		newVectorIndex: cfg.NewVectorIndex,
		prompts:        prompts,
		parser:         parser,
		runs:           cfg.Runs,
		settings:       cfg.Settings.WithDefaults(),
		now:            time.Now,
	}
}

// Analyze runs the pipeline: preconditions, index, retrieval, prompt,
// generation, parsing, scoring and persistence. Every error returned is a
// *domain.AnalysisError; a parse failure is not an error.
func (s *AnalysisService) Analyze(ctx context.Context, req driving.AnalysisRequest) (*domain.AnalysisReport, error) {
	logger.Section("Risk Analysis")

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = domain.DefaultOutputPath
	}

	run := domain.RunRecord{
		ID:         uuid.New().String(),
		StartedAt:  s.now(),
		Query:      req.Query,
		OutputPath: outputPath,
	}

	report, err := s.analyze(ctx, req, run.ID, outputPath)
	s.record(ctx, run, report, err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *AnalysisService) analyze(
	ctx context.Context, req driving.AnalysisRequest, runID, outputPath string,
) (*domain.AnalysisReport, *domain.AnalysisError) {
	if aerr := s.checkPreconditions(req); aerr != nil {
		logger.Warn("Analysis aborted: %s", aerr.Message)
		return nil, aerr
	}

	embedder, err := s.ai.NewEmbeddingService(req.APIKey)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindConfiguration,
			"Could not create embedding service", err)
	}
	defer embedder.Close()

	llm, err := s.ai.NewLLMService(req.APIKey)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindConfiguration,
			"Could not create text-generation service", err)
	}
	defer llm.Close()

	retrieved, err := s.retrieve(ctx, embedder, req)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindRetrieval,
			"Failed to retrieve historical context", err)
	}

	contextText := retrieved.ContextText()
	reduced := retrieved.Len() == 0
	if reduced {
		logger.Warn("No historical context retrieved, continuing with taxonomy and target only")
		contextText = NoContextPlaceholder
	}

	taxonomyText := req.Taxonomy.Lead()
	targetText := req.Target.Lead()
	logger.Preview("Retrieved docs preview", contextText, previewRunes)
	logger.Preview("Risks document preview", taxonomyText, previewRunes)
	logger.Preview("Target document preview", targetText, previewRunes)

	prompt := s.prompts.Build(contextText, taxonomyText, targetText)

	logger.Info("Generating analysis with %s", llm.ModelName())
	raw, err := llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindGeneration,
			"Text generation failed", err)
	}

	parsed := s.parser.Parse(raw)
	ApplyScoring(&parsed.Result)
	logger.Info("%s (%d risks, score %d)", parsed.Outcome.Description(),
		len(parsed.Result.Risks), parsed.Result.Summary.RiskScore)
	for _, w := range parsed.Warnings {
		logger.Debug("Response warning: %s", w)
	}

	if err := WriteArtifact(outputPath, parsed); err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindOutput,
			fmt.Sprintf("Could not write analysis to %s", outputPath), err)
	}

	return &domain.AnalysisReport{
		RunID:          runID,
		ParseResult:    parsed,
		ReducedContext: reduced,
		RetrievedCount: retrieved.Len(),
		OutputPath:     outputPath,
	}, nil
}

// checkPreconditions validates the request in order: credential, taxonomy, target.
func (s *AnalysisService) checkPreconditions(req driving.AnalysisRequest) *domain.AnalysisError {
	if s.ai == nil || s.newVectorIndex == nil {
		return domain.NewAnalysisError(domain.ErrorKindConfiguration,
			"Analysis service is not configured", domain.ErrLLMUnavailable)
	}
	if req.APIKey == "" && s.ai.RequiresCredential() {
		return domain.NewAnalysisError(domain.ErrorKindConfiguration,
			"API key is missing. Set it with --api-key or the RISK_ANALYZER_API_KEY environment variable",
			domain.ErrMissingCredential)
	}
	if !req.Taxonomy.HasUsableLead() {
		return domain.NewAnalysisError(domain.ErrorKindInput,
			"Please provide a risks document", domain.ErrEmptyTaxonomy)
	}
	if !req.Target.HasUsableLead() {
		return domain.NewAnalysisError(domain.ErrorKindInput,
			"Please provide a target document", domain.ErrEmptyTarget)
	}
	return nil
}

// retrieve builds the per-run index over the non-blank historical documents
// and runs the three searches. A group with no such documents yields an
// empty set.
func (s *AnalysisService) retrieve(
	ctx context.Context, embedder driven.EmbeddingService, req driving.AnalysisRequest,
) (*RetrievedSet, error) {
	corpus := req.Historical.NonBlank()
	if len(corpus) == 0 {
		logger.Warn("No historical documents supplied")
		return NewRetrievedSet(), nil
	}

	index, err := BuildIndex(ctx, embedder, s.newVectorIndex, corpus)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	retriever := NewRetriever(embedder, s.settings.TopK)
	return retriever.Retrieve(ctx, index, RetrievalQueries{
		Query:    req.Query,
		Taxonomy: req.Taxonomy.Lead(),
		Target:   req.Target.Lead(),
	})
}

// record saves the run to the ledger. Ledger failures are logged, not returned.
func (s *AnalysisService) record(
	ctx context.Context, run domain.RunRecord, report *domain.AnalysisReport, aerr *domain.AnalysisError,
) {
	if s.runs == nil {
		return
	}
	run.FinishedAt = s.now()
	if aerr != nil {
		run.ErrorKind = aerr.Kind
		run.ErrorMessage = aerr.Error()
	}
	if report != nil {
		summary := report.Result.Summary
		run.Outcome = report.Outcome
		run.HighCount = summary.HighCount
		run.MediumCount = summary.MediumCount
		run.LowCount = summary.LowCount
		run.RiskScore = summary.RiskScore
		run.ReducedContext = report.ReducedContext
	}

	// The ledger entry is written even if the caller cancelled the run.
	if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("Failed to record run %s: %v", run.ID, err)
	}
}

// WriteArtifact persists a parse result to path. Structured outcomes are
// written as the canonical JSON of the result, which embeds the raw
// response; other outcomes are written as the raw text verbatim.
// The file is replaced atomically and its directory created if absent.
func WriteArtifact(path string, parsed domain.ParseResult) error {
	var data []byte
	if parsed.Outcome.IsStructured() {
		encoded, err := json.MarshalIndent(parsed.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		data = append(encoded, '\n')
	} else {
		data = []byte(parsed.Result.RawResponse)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// ReadArtifact loads an artifact written by WriteArtifact. A file holding
// raw text rather than a result is returned through the parser, so the
// caller always gets a structurally valid result and the original text.
// For a canonical result the outcome, missing keys and warnings are
// recovered by re-parsing the embedded raw response, since the canonical
// form always carries every key.
func ReadArtifact(path string, parser *ResponseParser) (domain.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ParseResult{}, err
	}
	if parser == nil {
		parser = NewResponseParser()
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err == nil && result.Risks != nil {
		if result.Timeline == nil {
			result.Timeline = []domain.TimelineEntry{}
		}
		parsed := domain.ParseResult{Outcome: domain.OutcomeParsed}
		if result.RawResponse != "" {
			if reparsed := parser.Parse(result.RawResponse); reparsed.Outcome.IsStructured() {
				parsed = reparsed
			}
		}
		parsed.Result = result
		ApplyScoring(&parsed.Result)
		return parsed, nil
	}

	parsed := parser.Parse(string(data))
	ApplyScoring(&parsed.Result)
	return parsed, nil
}
