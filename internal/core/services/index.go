package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
)

// embedBatchSize bounds the number of texts sent per embedding request.
const embedBatchSize = 64

// EmbeddingIndex is a similarity-searchable index over a document corpus.
// It is built once per analysis run and never shared between runs.
type EmbeddingIndex struct {
	docs  []domain.Document
	index driven.VectorIndex
}

// BuildIndex embeds every document and indexes the vectors.
// Building over zero documents returns domain.ErrEmptyCorpus; callers must
// guard that case before calling.
func BuildIndex(
	ctx context.Context,
	embedder driven.EmbeddingService,
	newIndex driven.VectorIndexFactory,
	docs []domain.Document,
) (*EmbeddingIndex, error) {
	if len(docs) == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vectors := make([][]float32, 0, len(docs))
	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))
		texts := make([]string, 0, end-start)
		for _, d := range docs[start:end] {
			texts = append(texts, d.Content)
		}
		batch, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed corpus: %w", err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embed corpus: got %d vectors for %d texts", len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}

	index, err := newIndex(len(vectors[0]))
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}

	for i, vec := range vectors {
		if err := index.Add(ctx, strconv.Itoa(i), vec); err != nil {
			index.Close()
			return nil, fmt.Errorf("index document %d: %w", i, err)
		}
	}

	logger.Debug("Indexed %d historical documents (model %s)", len(docs), embedder.ModelName())

	copied := make([]domain.Document, len(docs))
	copy(copied, docs)
	return &EmbeddingIndex{docs: copied, index: index}, nil
}

// Len returns the number of indexed documents.
func (e *EmbeddingIndex) Len() int {
	return len(e.docs)
}

// Query returns up to k documents nearest to vector, most similar first.
func (e *EmbeddingIndex) Query(ctx context.Context, vector []float32, k int) ([]domain.Document, error) {
	hits, err := e.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		i, err := strconv.Atoi(hit.Key)
		if err != nil || i < 0 || i >= len(e.docs) {
			logger.Warn("Vector index returned unknown key %q", hit.Key)
			continue
		}
		docs = append(docs, e.docs[i])
	}
	return docs, nil
}

// Close releases the underlying vector index.
func (e *EmbeddingIndex) Close() error {
	return e.index.Close()
}
