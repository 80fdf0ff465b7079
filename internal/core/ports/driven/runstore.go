package driven

import (
	"context"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

// RunStore persists the analysis run ledger.
type RunStore interface {
	// Save inserts or replaces a run record.
	Save(ctx context.Context, run domain.RunRecord) error

	// Get retrieves a run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RunRecord, error)

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunRecord, error)
}
