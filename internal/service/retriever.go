package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/embedding"
	"github.com/liliang-cn/askpdf/internal/vectorstore"
)

// DefaultTopK is the number of chunks retrieved per question
const DefaultTopK = 4

// Retriever answers nearest-chunk queries over one document. It is immutable
// once built.
type Retriever struct {
	chunks   []domain.Chunk
	index    *vectorstore.Index
	embedder embedding.Embedder
	topK     int
}

// NewRetriever embeds the chunks and indexes them
func NewRetriever(chunks []domain.Chunk, embedder embedding.Embedder, topK int) (*Retriever, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	index, err := vectorstore.New(embedder.Dimension(), embedding.EmbedAll(embedder, texts))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &Retriever{
		chunks:   chunks,
		index:    index,
		embedder: embedder,
		topK:     topK,
	}, nil
}

// Retrieve returns up to topK chunks ordered by ascending distance to the query
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits, err := r.index.Search(r.embedder.Embed(query), r.topK)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Chunk, len(hits))
	for i, h := range hits {
		out[i] = r.chunks[h.ID]
	}
	return out, nil
}

// Len returns the number of indexed chunks
func (r *Retriever) Len() int {
	return len(r.chunks)
}

// JoinChunks renders retrieved chunks as prompt context, separated by a blank line
func JoinChunks(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}
