// Package flat provides an exact nearest-neighbour index that compares the
// query against every stored vector.
package flat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

var errClosed = errors.New("index closed")

// Index stores vectors in insertion order and searches them by squared
// Euclidean distance.
type Index struct {
	mu      sync.RWMutex
	dims    int
	vectors [][]float32
	closed  bool
}

// New creates an empty index for vectors of the given size.
func New(dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrInvalidInput, dimensions)
	}
	return &Index{dims: dimensions}, nil
}

// Factory adapts New to driven.IndexFactory.
func Factory(dimensions int) (driven.VectorIndex, error) {
	return New(dimensions)
}

// Add appends a copy of vector and returns its position.
func (i *Index) Add(_ context.Context, vector []float32) (int, error) {
	if len(vector) != i.dims {
		return 0, fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, i.dims, len(vector))
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return 0, errClosed
	}

	v := make([]float32, len(vector))
	copy(v, vector)
	i.vectors = append(i.vectors, v)
	return len(i.vectors) - 1, nil
}

// Search returns the k nearest vectors by ascending squared distance.
// Ties keep insertion order. k larger than the index returns every vector.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != i.dims {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrDimensionMismatch, i.dims, len(query))
	}
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]driven.VectorHit, len(i.vectors))
	for pos, v := range i.vectors {
		if pos%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits[pos] = driven.VectorHit{Position: pos, Distance: squaredL2(query, v)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vectors)
}

// Dimensions returns the vector size.
func (i *Index) Dimensions() int {
	return i.dims
}

// Close drops the stored vectors.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.vectors = nil
	i.closed = true
	return nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for j := range a {
		d := float64(a[j]) - float64(b[j])
		sum += d * d
	}
	return sum
}
