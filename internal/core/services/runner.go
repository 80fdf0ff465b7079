package services

import (
	"context"
	"fmt"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// Ensure Runner implements the interface.
var _ driving.FolderAnalyzer = (*Runner)(nil)

// AIFactoryBuilder creates the AI service factory for provider settings.
type AIFactoryBuilder func(settings domain.AISettings) (driven.AIServiceFactory, error)

// RunnerConfig holds the collaborators of a Runner.
type RunnerConfig struct {
	// Settings supplies the effective configuration per run. Nil uses defaults.
	Settings driving.SettingsService

	// Loader reads the input folders. Required.
	Loader driving.DocumentLoader

	// NewAI builds the provider factory from settings. Required.
	NewAI AIFactoryBuilder

	// NewVectorIndex creates the per-run vector index. Required.
	NewVectorIndex driven.VectorIndexFactory

	// Prompts holds the user-editable prompt template. Optional.
	Prompts driven.PromptStore

	// Parser interprets generator responses. Nil creates a default parser.
	Parser *ResponseParser

	// Runs records the run ledger. Optional.
	Runs driven.RunStore
}

// Runner resolves settings and folders, then runs one analysis.
// Settings are re-read on every call so `settings set` applies to the next run.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a folder-level runner.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Parser == nil {
		cfg.Parser = NewResponseParser()
	}
	return &Runner{cfg: cfg}
}

// AnalyzeFolders loads the three input folders and analyses them.
func (r *Runner) AnalyzeFolders(ctx context.Context, req driving.FolderRequest) (*driving.FolderReport, error) {
	settings, err := r.settings()
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindConfiguration, "Invalid settings", err)
	}
	if r.cfg.Loader == nil || r.cfg.NewAI == nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindConfiguration,
			"Analysis runner is not configured", fmt.Errorf("%w: loader and AI builder are required", domain.ErrInvalidInput))
	}

	ai, err := r.cfg.NewAI(settings.AI)
	if err != nil {
		return nil, domain.NewAnalysisError(domain.ErrorKindConfiguration, "Invalid AI provider settings", err)
	}

	req = resolveRequest(req, settings.Paths)

	logger.Section("Loading Documents")
	historical, histReport := r.cfg.Loader.LoadGroup(ctx, domain.RoleHistorical, req.HistoricalDir)
	taxonomy, taxReport := r.cfg.Loader.LoadGroup(ctx, domain.RoleTaxonomy, req.TaxonomyDir)
	target, targetReport := r.cfg.Loader.LoadGroup(ctx, domain.RoleTarget, req.TargetDir)
	loads := []domain.LoadReport{histReport, taxReport, targetReport}

	svc := NewAnalysisService(AnalysisConfig{
		AI:             ai,
		NewVectorIndex: r.cfg.NewVectorIndex,
		Prompts:        NewPromptBuilder(r.cfg.Prompts),
		Parser:         r.cfg.Parser,
		Runs:           r.cfg.Runs,
		Settings:       settings.Analysis,
	})

	report, err := svc.Analyze(ctx, driving.AnalysisRequest{
		APIKey:     req.APIKey,
		Query:      req.Query,
		Historical: historical,
		Taxonomy:   taxonomy,
		Target:     target,
		OutputPath: req.OutputPath,
	})
	if err != nil {
		return nil, err
	}
	return &driving.FolderReport{AnalysisReport: report, Loads: loads}, nil
}

func (r *Runner) settings() (domain.Settings, error) {
	if r.cfg.Settings == nil {
		return domain.DefaultSettings(), nil
	}
	return r.cfg.Settings.Get()
}

// resolveRequest fills empty request fields from the configured paths.
func resolveRequest(req driving.FolderRequest, paths domain.PathSettings) driving.FolderRequest {
	paths = paths.WithDefaults()
	if req.Query == "" {
		req.Query = domain.DefaultQuery
	}
	if req.HistoricalDir == "" {
		req.HistoricalDir = paths.Historical
	}
	if req.TaxonomyDir == "" {
		req.TaxonomyDir = paths.Taxonomy
	}
	if req.TargetDir == "" {
		req.TargetDir = paths.Target
	}
	if req.OutputPath == "" {
		req.OutputPath = paths.Output
	}
	return req
}
