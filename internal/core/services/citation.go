package services

import (
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// DefaultCatalogueURL is the public catalogue used for record permalinks.
const DefaultCatalogueURL = "https://digicoll.lib.berkeley.edu"

// citationSeparator closes every citation block.
const citationSeparator = "\n___________\n\n"

// citationFields are rendered in this order with these labels.
var citationFields = []struct {
	name  domain.SemanticName
	label string
}{
	{domain.MetaTindID, "Tind ID:"},
	{domain.MetaTitle, "Title:"},
	{domain.MetaContributor, "Contributor:"},
	{domain.MetaIsPartOf, "Project Name:"},
}

// CitationFormatter renders the catalogue metadata of retrieved chunks
// as human-readable attribution text.
type CitationFormatter struct {
	baseURL string
}

// NewCitationFormatter creates a formatter linking to baseURL.
// An empty baseURL uses DefaultCatalogueURL.
func NewCitationFormatter(baseURL string) *CitationFormatter {
	if baseURL == "" {
		baseURL = DefaultCatalogueURL
	}
	return &CitationFormatter{baseURL: strings.TrimRight(baseURL, "/")}
}

// BuildURL returns the catalogue permalink for a record.
func (f *CitationFormatter) BuildURL(id string) string {
	return f.baseURL + "/record/" + id
}

// RenderCitations renders one citation block per distinct record, in the
// order records are first seen. Chunks without a record ID are skipped.
func (f *CitationFormatter) RenderCitations(chunks []domain.Chunk) string {
	var b strings.Builder
	seen := make(map[string]bool)

	for _, c := range chunks {
		id := c.RecordID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		b.WriteString("\n\n")
		f.writeBlock(&b, id, c.Metadata)
		b.WriteString(citationSeparator)
	}

	return b.String()
}

// writeBlock writes the labelled fields and permalink of one record.
// List values get one line per value; scalar values are followed by a blank line.
func (f *CitationFormatter) writeBlock(b *strings.Builder, id string, md domain.DocumentMetadata) {
	for _, field := range citationFields {
		v := md.Get(field.name)
		switch v.Kind() {
		case domain.KindMany:
			for _, s := range v.Strings() {
				b.WriteString(field.label + " " + s + "\n")
			}
		case domain.KindSingle:
			b.WriteString(field.label + " " + v.First() + "\n\n")
		}
	}
	b.WriteString("Catalogue Link: " + f.BuildURL(id))
}
