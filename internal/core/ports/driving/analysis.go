package driving

import (
	"context"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

// AnalysisRequest carries the inputs of one analysis run.
type AnalysisRequest struct {
	// APIKey is the credential for the configured AI providers.
	APIKey string

	// Query is the free-text question driving retrieval.
	Query string

	Historical domain.DocumentGroup
	Taxonomy   domain.DocumentGroup
	Target     domain.DocumentGroup

	// OutputPath is where the artifact is written. Its directory is created if absent.
	OutputPath string
}

// AnalysisService runs the retrieval-augmented risk analysis.
type AnalysisService interface {
	// Analyze runs one analysis. Every returned error is a *domain.AnalysisError.
	Analyze(ctx context.Context, req AnalysisRequest) (*domain.AnalysisReport, error)
}

// DocumentLoader turns input folders into document groups.
type DocumentLoader interface {
	// LoadFolder loads every supported file in folder. Per-file failures
	// are reported in the result, never returned as an error.
	LoadFolder(ctx context.Context, folder string) domain.LoadReport

	// LoadGroup loads folder and wraps its documents in a group with role.
	LoadGroup(ctx context.Context, role domain.GroupRole, folder string) (domain.DocumentGroup, domain.LoadReport)
}

// FolderRequest names the inputs of one run by folder. Empty fields fall
// back to the configured paths and DefaultQuery.
type FolderRequest struct {
	APIKey        string
	Query         string
	HistoricalDir string
	TaxonomyDir   string
	TargetDir     string
	OutputPath    string
}

// FolderReport is the outcome of a folder-level run.
type FolderReport struct {
	*domain.AnalysisReport

	// Loads holds one load report per folder, in historical, taxonomy, target order.
	Loads []domain.LoadReport
}

// FolderAnalyzer loads the input folders and runs one analysis over them.
type FolderAnalyzer interface {
	// AnalyzeFolders returns an error that is always a *domain.AnalysisError.
	AnalyzeFolders(ctx context.Context, req FolderRequest) (*FolderReport, error)
}

// ReportReader reads a previously written output artifact.
type ReportReader interface {
	// Read parses the artifact at path; counts and score are recomputed.
	Read(path string) (domain.ParseResult, error)

	// Band labels a risk score as Low, Moderate or High.
	Band(score int) string
}

// RunHistoryService exposes the run ledger.
type RunHistoryService interface {
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Get returns one run by ID.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)
}
