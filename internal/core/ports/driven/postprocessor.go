package driven

import (
	"context"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// PostProcessor is one stage between text extraction and indexing.
// Filters rewrite doc.Content and pass chunks through untouched; the
// chunker ignores its input chunks and cuts doc.Content into new ones.
type PostProcessor interface {
	// Name identifies the stage in logs and pipeline configuration.
	Name() string

	// Process runs the stage on doc.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline turns an extracted document into indexable chunks.
// Every chunk carries the document's metadata.
type PostProcessorPipeline interface {
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
