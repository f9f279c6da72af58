package driven

import (
	"context"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// VectorIndex embeds and stores text chunks and retrieves them by similarity.
// Implementations must allow concurrent Add calls without lost writes.
type VectorIndex interface {
	// Add embeds and stores chunks, returning their IDs in input order.
	Add(ctx context.Context, chunks []domain.Chunk) ([]string, error)

	// Retrieve returns the k chunks most similar to query, most similar first.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}

// VectorStore persists chunks with precomputed embeddings.
// Backed by memory, SQLite or Postgres with pgvector.
type VectorStore interface {
	// Upsert stores chunks. Every chunk must carry an Embedding.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search finds the k nearest chunks to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk, without its embedding.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}
