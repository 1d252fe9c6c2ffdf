// Package embedding turns text into fixed-size vectors for the retrieval index.
package embedding

import (
	"hash/fnv"
	"math/rand"
)

// DefaultDimension matches the vector size the index was first built with.
const DefaultDimension = 1352

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Dimension() int
	Embed(text string) []float32
}

// Placeholder produces pseudo-random, non-semantic vectors seeded by the text.
// Equal texts get equal vectors; similar texts do not get similar vectors.
type Placeholder struct {
	dim int
}

// NewPlaceholder creates a placeholder embedder. Non-positive sizes fall back to DefaultDimension.
func NewPlaceholder(dim int) *Placeholder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Placeholder{dim: dim}
}

func (p *Placeholder) Dimension() int { return p.dim }

// Embed returns a vector of standard-normal components drawn from a generator
// seeded with the FNV-64a hash of text.
func (p *Placeholder) Embed(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))

	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	vec := make([]float32, p.dim)
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
	}
	return vec
}

// EmbedAll embeds each text in order.
func EmbedAll(e Embedder, texts []string) [][]float32 {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.Embed(t)
	}
	return out
}
