package services

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/storage/memory"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
)

func TestBuildIndex_EmptyCorpus(t *testing.T) {
	_, err := BuildIndex(context.Background(), newMockEmbedder(nil), memory.NewVectorIndexFactory(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
}

func TestBuildIndex_NilEmbedder(t *testing.T) {
	_, err := BuildIndex(context.Background(), nil, memory.NewVectorIndexFactory(), []domain.Document{doc("a")})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestBuildIndex_BatchesLargeCorpus(t *testing.T) {
	embedder := newMockEmbedder(nil)
	docs := make([]domain.Document, embedBatchSize*2+5)
	for i := range docs {
		docs[i] = doc("record " + strconv.Itoa(i))
	}

	index, err := BuildIndex(context.Background(), embedder, memory.NewVectorIndexFactory(), docs)
	require.NoError(t, err)
	defer index.Close()

	assert.Equal(t, len(docs), index.Len())
	assert.Equal(t, 3, embedder.batchCalls)
}

func TestBuildIndex_EmbedError(t *testing.T) {
	embedder := newMockEmbedder(nil)
	embedder.batchErr = errors.New("service down")

	_, err := BuildIndex(context.Background(), embedder, memory.NewVectorIndexFactory(), []domain.Document{doc("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service down")
}

func TestBuildIndex_FactoryError(t *testing.T) {
	failing := func(int) (driven.VectorIndex, error) { return nil, errors.New("no index") }

	_, err := BuildIndex(context.Background(), newMockEmbedder(nil), failing, []domain.Document{doc("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create vector index")
}

func TestEmbeddingIndex_Query(t *testing.T) {
	embedder := newMockEmbedder(map[string][]float32{
		"cost":     {1, 0, 0, 0},
		"schedule": {0, 1, 0, 0},
	})
	index, err := BuildIndex(context.Background(), embedder, memory.NewVectorIndexFactory(),
		[]domain.Document{doc("cost"), doc("schedule")})
	require.NoError(t, err)
	defer index.Close()

	docs, err := index.Query(context.Background(), []float32{0, 1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "schedule", docs[0].Content)
	assert.Equal(t, "schedule.csv", docs[0].Path)
}
