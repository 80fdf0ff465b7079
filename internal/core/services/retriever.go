package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// NoContextPlaceholder replaces the retrieved context when retrieval found nothing.
const NoContextPlaceholder = "No relevant documents were retrieved. " +
	"Please proceed with only risks and target documents."

// RetrievedSet is an insertion-ordered set of documents keyed by content.
// Adding a document whose content is already present replaces the stored
// document but keeps its original position.
type RetrievedSet struct {
	order []string
	docs  map[string]domain.Document
}

// NewRetrievedSet creates an empty set.
func NewRetrievedSet() *RetrievedSet {
	return &RetrievedSet{docs: make(map[string]domain.Document)}
}

// Add inserts doc, keyed by its exact content.
func (s *RetrievedSet) Add(doc domain.Document) {
	if _, ok := s.docs[doc.Content]; !ok {
		s.order = append(s.order, doc.Content)
	}
	s.docs[doc.Content] = doc
}

// Len returns the number of distinct documents.
func (s *RetrievedSet) Len() int {
	return len(s.order)
}

// Documents returns the documents in first-seen order.
func (s *RetrievedSet) Documents() []domain.Document {
	docs := make([]domain.Document, len(s.order))
	for i, key := range s.order {
		docs[i] = s.docs[key]
	}
	return docs
}

// ContextText renders the set as numbered blocks for the prompt, or "" if empty.
func (s *RetrievedSet) ContextText() string {
	blocks := make([]string, len(s.order))
	for i, key := range s.order {
		blocks[i] = fmt.Sprintf("Document %d: %s", i+1, s.docs[key].Content)
	}
	return strings.Join(blocks, "\n\n")
}

// MergeRetrieved folds result lists into a RetrievedSet in the order given.
func MergeRetrieved(lists ...[]domain.Document) *RetrievedSet {
	set := NewRetrievedSet()
	for _, list := range lists {
		for _, doc := range list {
			set.Add(doc)
		}
	}
	return set
}

// RetrievalQueries are the three texts a retrieval is driven by.
type RetrievalQueries struct {
	Query    string
	Taxonomy string
	Target   string
}

// Retriever runs the three similarity searches of an analysis.
type Retriever struct {
	embedder driven.EmbeddingService
	topK     int
}

// NewRetriever creates a retriever fetching topK neighbours per query.
func NewRetriever(embedder driven.EmbeddingService, topK int) *Retriever {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &Retriever{embedder: embedder, topK: topK}
}

// Retrieve embeds each query, searches index with each vector, and merges
// the hits in the order query, target, taxonomy. A nil or empty index
// yields an empty set. Blank query texts are skipped.
func (r *Retriever) Retrieve(ctx context.Context, index *EmbeddingIndex, q RetrievalQueries) (*RetrievedSet, error) {
	if index == nil || index.Len() == 0 {
		logger.Warn("No historical corpus indexed, skipping semantic search")
		return NewRetrievedSet(), nil
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// Slots fix the merge order regardless of completion order.
	texts := [3]string{q.Query, q.Target, q.Taxonomy}
	labels := [3]string{"query", "target", "taxonomy"}
	var results [3][]domain.Document

	g, gctx := errgroup.WithContext(ctx)
	for i := range texts {
		if strings.TrimSpace(texts[i]) == "" {
			logger.Debug("Skipping blank %s text", labels[i])
			continue
		}
		g.Go(func() error {
			vec, err := r.embedder.Embed(gctx, texts[i])
			if err != nil {
				return fmt.Errorf("embed %s: %w", labels[i], err)
			}
			docs, err := index.Query(gctx, vec, r.topK)
			if err != nil {
				return fmt.Errorf("search by %s: %w", labels[i], err)
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		logger.Debug("Retrieved by %s: %d", labels[i], len(results[i]))
	}

	set := MergeRetrieved(results[0], results[1], results[2])
	if set.Len() == 0 {
		logger.Warn("No documents retrieved during semantic search")
	}
	logger.Info("Retrieved %d relevant docs for semantic search", set.Len())
	return set, nil
}
