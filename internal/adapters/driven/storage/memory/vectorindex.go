package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exact cosine-similarity index held in memory.
// Search scans every vector; ties keep insertion order.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	keys       []string
	vectors    [][]float32
	norms      []float64
}

// NewVectorIndex creates an empty index for vectors of the given size.
func NewVectorIndex(dimensions int) (*VectorIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("invalid vector dimensions: %d", dimensions)
	}
	return &VectorIndex{dimensions: dimensions}, nil
}

// NewVectorIndexFactory returns a driven.VectorIndexFactory building memory indexes.
func NewVectorIndexFactory() driven.VectorIndexFactory {
	return func(dimensions int) (driven.VectorIndex, error) {
		return NewVectorIndex(dimensions)
	}
}

// Add inserts a vector under key. Re-adding a key replaces its vector.
func (v *VectorIndex) Add(_ context.Context, key string, embedding []float32) error {
	if len(embedding) != v.dimensions {
		return fmt.Errorf("vector has %d dimensions, index expects %d", len(embedding), v.dimensions)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	v.mu.Lock()
	defer v.mu.Unlock()
	for i, k := range v.keys {
		if k == key {
			v.vectors[i] = vec
			v.norms[i] = norm(vec)
			return nil
		}
	}
	v.keys = append(v.keys, key)
	v.vectors = append(v.vectors, vec)
	v.norms = append(v.norms, norm(vec))
	return nil
}

// Search returns up to k keys most similar to query.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index expects %d", len(query), v.dimensions)
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	qnorm := norm(query)
	hits := make([]driven.VectorHit, len(v.keys))
	for i, vec := range v.vectors {
		hits[i] = driven.VectorHit{Key: v.keys[i], Similarity: cosine(query, qnorm, vec, v.norms[i])}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Similarity > hits[b].Similarity
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys)
}

// Close drops all vectors.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys, v.vectors, v.norms = nil, nil, nil
	return nil
}

func norm(vec []float32) float64 {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine returns 0 when either vector has zero length.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}
