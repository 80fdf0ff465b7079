package driven

import "context"

// VectorIndex provides semantic similarity search operations.
// Keys are opaque to the index; callers map them back to documents.
type VectorIndex interface {
	// Add inserts a vector under the given key.
	Add(ctx context.Context, key string, embedding []float32) error

	// Search finds up to k nearest neighbours to the query vector, most
	// similar first. Tie order is the implementation's own.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Key identifies the matched vector.
	Key string

	// Similarity is the cosine similarity score (-1 to 1).
	Similarity float64
}

// VectorIndexFactory creates an empty index for vectors of the given size.
// Each analysis run builds its own index; indices are never shared.
type VectorIndexFactory func(dimensions int) (VectorIndex, error)
