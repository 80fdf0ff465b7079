package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/storage/memory"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

type runnerFixture struct {
	runner   *Runner
	settings *SettingsService
	factory  *mockAIFactory
	llm      *mockLLMService
	builtFor []domain.AISettings
	root     string
}

func newRunnerFixture(t *testing.T) *runnerFixture {
	t.Helper()
	root := t.TempDir()
	for dir, files := range map[string]map[string]string{
		"history": {"2023.csv": "Office chairs delivered on time"},
		"risks":   {"taxonomy.csv": "Categories: Cost, Schedule"},
		"target":  {"tender.csv": "Supplier delayed 15 days"},
	} {
		path := filepath.Join(root, dir)
		require.NoError(t, os.MkdirAll(path, 0o755))
		writeFiles(t, path, files)
	}

	f := &runnerFixture{
		settings: NewSettingsService(memory.NewConfigStore()),
		llm:      &mockLLMService{response: generatedAnalysis},
		root:     root,
	}
	f.factory = &mockAIFactory{embedder: newMockEmbedder(nil), llm: f.llm, requiresKey: true}

	f.runner = NewRunner(RunnerConfig{
		Settings: f.settings,
		Loader:   newTestLoader(nil),
		NewAI: func(s domain.AISettings) (driven.AIServiceFactory, error) {
			f.builtFor = append(f.builtFor, s)
			return f.factory, nil
		},
		NewVectorIndex: memory.NewVectorIndexFactory(),
		Prompts:        &mockPromptStore{template: "CTX={retrieved_docs} RISKS={risks_document} TARGET={target_document}"},
	})
	return f
}

func (f *runnerFixture) request() driving.FolderRequest {
	return driving.FolderRequest{
		APIKey:        "sk-test",
		HistoricalDir: filepath.Join(f.root, "history"),
		TaxonomyDir:   filepath.Join(f.root, "risks"),
		TargetDir:     filepath.Join(f.root, "target"),
		OutputPath:    filepath.Join(f.root, "out", "analysis.json"),
	}
}

func TestRunner_AnalyzeFolders(t *testing.T) {
	f := newRunnerFixture(t)

	report, err := f.runner.AnalyzeFolders(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeParsed, report.Outcome)
	assert.Equal(t, 13, report.Result.Summary.RiskScore)
	require.Len(t, report.Loads, 3)
	assert.Len(t, report.Loads[0].Documents, 1)

	assert.Equal(t, "CTX=Document 1: Office chairs delivered on time RISKS=Categories: Cost, Schedule TARGET=Supplier delayed 15 days", f.llm.prompt)
	assert.FileExists(t, filepath.Join(f.root, "out", "analysis.json"))
}

func TestRunner_AnalyzeFolders_DefaultsQuery(t *testing.T) {
	f := newRunnerFixture(t)
	emb := f.factory.embedder

	_, err := f.runner.AnalyzeFolders(context.Background(), f.request())
	require.NoError(t, err)

	emb.mu.Lock()
	defer emb.mu.Unlock()
	assert.Contains(t, emb.embedded, domain.DefaultQuery)
}

func TestRunner_AnalyzeFolders_ReadsSettingsPerRun(t *testing.T) {
	f := newRunnerFixture(t)

	_, err := f.runner.AnalyzeFolders(context.Background(), f.request())
	require.NoError(t, err)

	require.NoError(t, f.settings.Set("ai.provider", "ollama"))
	require.NoError(t, f.settings.Set("analysis.temperature", "0.2"))

	_, err = f.runner.AnalyzeFolders(context.Background(), f.request())
	require.NoError(t, err)

	require.Len(t, f.builtFor, 2)
	assert.Equal(t, domain.AIProviderOpenAI, f.builtFor[0].LLMProvider)
	assert.Equal(t, domain.AIProviderOllama, f.builtFor[1].LLMProvider)
	assert.InDelta(t, 0.2, f.llm.opts.Temperature, 1e-9)
}

func TestRunner_AnalyzeFolders_UsesConfiguredPaths(t *testing.T) {
	f := newRunnerFixture(t)
	require.NoError(t, f.settings.Set("paths.historical", filepath.Join(f.root, "history")))
	require.NoError(t, f.settings.Set("paths.taxonomy", filepath.Join(f.root, "risks")))
	require.NoError(t, f.settings.Set("paths.target", filepath.Join(f.root, "target")))
	require.NoError(t, f.settings.Set("paths.output", filepath.Join(f.root, "configured.json")))

	report, err := f.runner.AnalyzeFolders(context.Background(), driving.FolderRequest{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(f.root, "configured.json"), report.OutputPath)
	assert.FileExists(t, report.OutputPath)
}

func TestRunner_AnalyzeFolders_EmptyTargetIsInputError(t *testing.T) {
	f := newRunnerFixture(t)
	req := f.request()
	req.TargetDir = t.TempDir()

	_, err := f.runner.AnalyzeFolders(context.Background(), req)

	var aerr *domain.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, domain.ErrorKindInput, aerr.Kind)
	assert.ErrorIs(t, err, domain.ErrEmptyTarget)
}

func TestRunner_AnalyzeFolders_BuilderFailure(t *testing.T) {
	f := newRunnerFixture(t)
	f.runner.cfg.NewAI = func(domain.AISettings) (driven.AIServiceFactory, error) {
		return nil, errors.New("anthropic does not support embeddings")
	}

	_, err := f.runner.AnalyzeFolders(context.Background(), f.request())

	var aerr *domain.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, domain.ErrorKindConfiguration, aerr.Kind)
	assert.Contains(t, err.Error(), "anthropic does not support embeddings")
}

func TestRunner_AnalyzeFolders_Unconfigured(t *testing.T) {
	_, err := NewRunner(RunnerConfig{}).AnalyzeFolders(context.Background(), driving.FolderRequest{})

	var aerr *domain.AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, domain.ErrorKindConfiguration, aerr.Kind)
}

func TestResolveRequest(t *testing.T) {
	got := resolveRequest(driving.FolderRequest{TargetDir: "tender"}, domain.PathSettings{Taxonomy: "tax"})

	assert.Equal(t, driving.FolderRequest{
		Query:         domain.DefaultQuery,
		HistoricalDir: domain.DefaultHistoricalDir,
		TaxonomyDir:   "tax",
		TargetDir:     "tender",
		OutputPath:    domain.DefaultOutputPath,
	}, got)
}

func TestReportService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.json")
	parsed := NewResponseParser().Parse(generatedAnalysis)
	ApplyScoring(&parsed.Result)
	require.NoError(t, WriteArtifact(path, parsed))

	svc := NewReportService(nil)
	got, err := svc.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 13, got.Result.Summary.RiskScore)
	assert.Equal(t, "Low", svc.Band(got.Result.Summary.RiskScore))

	_, err = svc.Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
