package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/willa/internal/adapters/driven/vector/similarity"
	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory driven.VectorStore searched by brute-force
// cosine similarity. Chunks are kept in insertion order; upserting an
// existing ID replaces it in place.
type VectorStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
	byID   map[string]int
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{byID: make(map[string]int)}
}

// Upsert stores copies of chunks.
func (s *VectorStore) Upsert(_ context.Context, chunks []domain.Chunk) error {
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %q: %w: missing embedding", c.ID, domain.ErrInvalidInput)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if i, ok := s.byID[c.ID]; ok {
			s.chunks[i] = c.Clone()
			continue
		}
		s.byID[c.ID] = len(s.chunks)
		s.chunks = append(s.chunks, c.Clone())
	}
	return nil
}

// Search returns the k most similar chunks without their embeddings.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(s.chunks))
	for _, c := range s.chunks {
		hits = append(hits, driven.VectorHit{
			Chunk:      c,
			Similarity: similarity.Cosine(query, c.Embedding),
		})
	}
	s.mu.RUnlock()

	hits = similarity.TopK(hits, k)
	for i := range hits {
		hits[i].Chunk = hits[i].Chunk.Clone()
		hits[i].Chunk.Embedding = nil
	}
	return hits, nil
}

// Count returns the number of stored chunks.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
