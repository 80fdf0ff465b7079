package services

import (
	"context"
	"fmt"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.RunHistoryService = (*HistoryService)(nil)

// defaultHistoryLimit is used when callers pass a non-positive limit.
const defaultHistoryLimit = 20

// HistoryService reads the analysis run ledger.
type HistoryService struct {
	store driven.RunStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.RunStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit runs, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("run history: %w", domain.ErrNotFound)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	runs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("run history: %w", domain.ErrNotFound)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}
