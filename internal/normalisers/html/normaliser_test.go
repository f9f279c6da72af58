package html

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()
	assert.Equal(t, []string{"text/html", "application/xhtml+xml"}, n.SupportedMIMETypes())
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_StripsMarkup(t *testing.T) {
	raw := &domain.RawDocument{
		RecordID: "103806",
		URI:      "/data/103806/files/transcript.html",
		MIMEType: "text/html",
		Content: []byte(`<html><head><title>Interview with Jane &amp; John</title>
<style>p { color: red }</style></head>
<body><!-- nav --><script>track()</script>
<p>INTERVIEWER:   Where were you born?</p>
<p>DOE: In <b>Oakland</b>.<br/>Near the lake.</p>
</body></html>`),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.Equal(t, "103806", doc.ID)
	assert.Equal(t, raw.URI, doc.Source)
	assert.Equal(t, "Interview with Jane & John", doc.Title)
	assert.Equal(t, "INTERVIEWER: Where were you born?\nDOE: In Oakland.\nNear the lake.", doc.Content)
}

func TestNormalise_TitleFromFileName(t *testing.T) {
	raw := &domain.RawDocument{URI: "/x/oral_history-part1.html", Content: []byte("<p>text</p>")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "oral history part1", result.Document.Title)
}

func TestNormalise_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<div>one</div><div>two</div>"), 0o600))

	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: path})
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", result.Document.Content)
}

func TestNormalise_MissingFile(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/nonexistent/page.html"})
	assert.Error(t, err)
}

func TestStripHTML_Entities(t *testing.T) {
	assert.Equal(t, `"quoted" <tag>`, stripHTML("<p>&quot;quoted&quot; &lt;tag&gt;</p>"))
}
