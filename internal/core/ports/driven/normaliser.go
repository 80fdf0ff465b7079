package driven

import (
	"context"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
)

// Normaliser turns the bytes of one file into zero or more documents.
// Each normaliser handles a single source format.
type Normaliser interface {
	// Format returns the source format this normaliser handles.
	Format() domain.Format

	// Normalise extracts documents from content read from path.
	// Pagination, if any, is the normaliser's own; the loader imposes none.
	Normalise(ctx context.Context, path string, content []byte) ([]domain.Document, error)
}
