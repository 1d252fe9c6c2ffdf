// Package vectorstore is a brute-force in-memory nearest-neighbour index.
package vectorstore

import (
	"errors"
	"fmt"
	"sort"
)

// Hit is one search result: the position of the stored vector and its squared L2 distance
type Hit struct {
	ID       int
	Distance float32
}

// Index holds vectors of a fixed dimension. It is built once and only searched afterwards.
type Index struct {
	dimension int
	vectors   [][]float32
}

// New builds an index over vectors; the ID of each vector is its position.
func New(dimension int, vectors [][]float32) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d: dimension %d, want %d", i, len(v), dimension)
		}
	}
	return &Index{dimension: dimension, vectors: vectors}, nil
}

// Len returns the number of stored vectors
func (x *Index) Len() int { return len(x.vectors) }

// Dimension returns the vector size
func (x *Index) Dimension() int { return x.dimension }

// Search returns the k nearest vectors by ascending squared L2 distance.
// Equal distances keep insertion order.
func (x *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query dimension %d, want %d", len(query), x.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = Hit{ID: i, Distance: l2(v, query)}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func l2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
