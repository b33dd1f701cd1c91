package driven

import "context"

// VectorIndex provides nearest-neighbour search over a fixed set of vectors.
// Vectors are addressed by the position at which they were added, which is
// the only handle back to the corpus document.
type VectorIndex interface {
	// Add appends a vector and returns its position.
	Add(ctx context.Context, vector []float32) (int, error)

	// Search returns up to k hits ordered by ascending distance.
	// Equal distances are ordered by position.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of vectors in the index.
	Len() int

	// Dimensions returns the vector size the index accepts.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorHit is one nearest-neighbour result.
type VectorHit struct {
	// Position is the index of the matched vector in insertion order.
	Position int

	// Distance is the index's native distance (squared L2).
	Distance float64
}

// IndexFactory creates an empty index for vectors of the given size.
type IndexFactory func(dimensions int) (VectorIndex, error)
