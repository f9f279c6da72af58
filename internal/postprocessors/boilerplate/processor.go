// Package boilerplate removes known header and footer text from documents
// before they are chunked.
package boilerplate

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// DefaultHeaders are exact, case-sensitive substrings removed from every text.
var DefaultHeaders = []string{
	"Oral History Center, The Bancroft Library, University of California, Berkeley ",
}

// DefaultFooterPattern matches the transcript copyright footer.
const DefaultFooterPattern = `Copyright © 20\d\d by The Regents of the University of California ?`

// Processor strips boilerplate from the document content and from any
// chunks it receives. It implements the PostProcessor interface.
type Processor struct {
	headers []string
	footers []*regexp.Regexp
}

// Option configures the processor.
type Option func(*Processor)

// WithHeaders replaces the exact-match substrings.
func WithHeaders(headers ...string) Option {
	return func(p *Processor) {
		p.headers = headers
	}
}

// WithFooterPatterns replaces the footer expressions.
func WithFooterPatterns(patterns ...*regexp.Regexp) Option {
	return func(p *Processor) {
		p.footers = patterns
	}
}

// New creates a processor with the default Bancroft Library boilerplate.
func New(opts ...Option) *Processor {
	p := &Processor{
		headers: DefaultHeaders,
		footers: []*regexp.Regexp{regexp.MustCompile(DefaultFooterPattern)},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "boilerplate"
}

// Process filters doc.Content in place and returns the filtered chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	doc.Content = p.Filter(doc.Content)
	for i := range chunks {
		chunks[i].Content = p.Filter(chunks[i].Content)
	}
	return chunks, nil
}

// Filter removes every header substring, then every footer match.
func (p *Processor) Filter(text string) string {
	for _, h := range p.headers {
		if h != "" {
			text = strings.ReplaceAll(text, h, "")
		}
	}
	for _, re := range p.footers {
		text = re.ReplaceAllString(text, "")
	}
	return text
}
