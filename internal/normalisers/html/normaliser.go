package html

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML transcripts and finding aids.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips markup from an HTML file, keeping one line per block
// element. When Content is nil the file at URI is read.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := raw.Content
	if content == nil {
		data, err := os.ReadFile(raw.URI)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", raw.URI, err)
		}
		content = data
	}
	text := string(content)

	return &driven.NormaliseResult{
		Document: domain.Document{
			ID:      raw.RecordID,
			Source:  raw.URI,
			Title:   extractHTMLTitle(text, raw.URI),
			Content: stripHTML(text),
		},
	}, nil
}

// Markup patterns. Regular expressions are enough for the flat pages
// the catalogue serves.
var (
	titleTag = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

	// dropped removes elements whose text is never part of the transcript.
	dropped = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`),
		regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`),
		regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`),
		regexp.MustCompile(`(?s)<!--.*?-->`),
	}

	// lineBreaks become newlines so speaker turns stay on separate lines.
	lineBreaks = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|dt|dd|blockquote|pre|table|section|article)[^>]*>`),
		regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|dt|dd|blockquote|pre|table|section|article)>`),
		regexp.MustCompile(`(?i)<(br|hr)\s*/?>`),
	}

	anyTag      = regexp.MustCompile(`<[^>]+>`)
	multiSpaces = regexp.MustCompile(`[ \t]+`)
)

// extractHTMLTitle returns the <title> text, or a title derived from the file name.
func extractHTMLTitle(content, uri string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		if title := strings.TrimSpace(html.UnescapeString(m[1])); title != "" {
			return title
		}
	}

	name := strings.TrimSuffix(filepath.Base(uri), filepath.Ext(uri))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// stripHTML reduces markup to trimmed, non-empty lines of text.
func stripHTML(content string) string {
	for _, re := range dropped {
		content = re.ReplaceAllString(content, "")
	}
	for _, re := range lineBreaks {
		content = re.ReplaceAllString(content, "\n")
	}
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
