// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into overlapping fixed-size windows.
// Sizes and offsets count characters (runes), not bytes.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks. Each chunk records
// its start offset in the content and carries the document metadata.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		return nil, nil
	}

	content := []rune(doc.Content)
	contentLen := len(content)
	step := p.chunkSize - p.overlap

	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	for start, position := 0, 0; start < contentLen; start, position = start+step, position+1 {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    string(content[start:end]),
			Position:   position,
			StartIndex: start,
			Source:     doc.Source,
			Metadata:   doc.Metadata.Clone(),
		})

		// The last window already reaches the end of the text
		if end == contentLen {
			break
		}
	}

	return chunks, nil
}

// Reassemble joins chunks produced by Process back into the source text,
// dropping the overlapping prefix of every chunk after the first.
func Reassemble(chunks []domain.Chunk) string {
	var out []rune
	for _, c := range chunks {
		r := []rune(c.Content)
		skip := len(out) - c.StartIndex
		if skip < 0 {
			skip = 0
		}
		if skip < len(r) {
			out = append(out, r[skip:]...)
		}
	}
	return string(out)
}
