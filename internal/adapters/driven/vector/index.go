// Package vector provides the default driven.VectorIndex: an embedding
// service in front of a driven.VectorStore.
package vector

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index embeds chunk text and delegates storage and search to a VectorStore.
// Concurrent Add calls are safe when the store's Upsert is.
type Index struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewIndex creates an index. Both dependencies are required.
func NewIndex(embedder driven.EmbeddingService, store driven.VectorStore) (*Index, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	return &Index{embedder: embedder, store: store}, nil
}

// Add embeds and stores chunks. Chunks without an ID are given a random one.
func (i *Index) Add(ctx context.Context, chunks []domain.Chunk) ([]string, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.Content
	}
	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	stored := make([]domain.Chunk, len(chunks))
	ids := make([]string, len(chunks))
	for n, c := range chunks {
		c = c.Clone()
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.Embedding = vectors[n]
		stored[n] = c
		ids[n] = c.ID
	}

	if err := i.store.Upsert(ctx, stored); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}
	return ids, nil
}

// Retrieve embeds query and returns the k most similar chunks.
func (i *Index) Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}
	vec, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := i.store.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	chunks := make([]domain.Chunk, len(hits))
	for n, h := range hits {
		chunks[n] = h.Chunk
	}
	return chunks, nil
}

// Close closes the store and the embedder.
func (i *Index) Close() error {
	return errors.Join(i.store.Close(), i.embedder.Close())
}
