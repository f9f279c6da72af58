package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "text/markdown")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_Content(t *testing.T) {
	raw := &domain.RawDocument{
		RecordID: "103806",
		URI:      "/storage/103806/kerby-interview_notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("Interview notes."),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "103806", result.Document.ID)
	assert.Equal(t, "kerby interview notes", result.Document.Title)
	assert.Equal(t, "Interview notes.", result.Document.Content)
	assert.Equal(t, raw.URI, result.Document.Source)
}

func TestNormalise_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0o600))

	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: path})
	require.NoError(t, err)
	assert.Equal(t, "from disk", result.Document.Content)
}

func TestNormalise_MissingFile(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/does/not/exist.txt"})
	assert.Error(t, err)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "x.txt", Content: []byte{0xff, 0xfe}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
