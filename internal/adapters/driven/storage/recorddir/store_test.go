package recorddir

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/normalisers/marc"
)

func testRecord() *domain.RawRecord {
	return &domain.RawRecord{
		ControlFields: []domain.ControlField{{Tag: "001", Data: "103806"}},
		DataFields: []domain.DataField{{
			Tag: "245", Ind1: "1", Ind2: "0",
			Subfields: []domain.Subfield{{Code: "a", Value: "Thalia Zepatos"}},
		}},
	}
}

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")

	s, err := New(root)

	require.NoError(t, err)
	assert.Equal(t, root, s.Root())
	assert.DirExists(t, root)
}

func TestCreate_Collision(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	dir, err := s.Create("103806")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	_, err = s.Create("103806")

	var se *domain.StorageError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestCreate_RejectsPathIDs(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "../x", `a\b`} {
		_, err := s.Create(id)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, id)
	}
}

func TestWriteAndReadBack(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	rec := testRecord()
	md, err := marc.Normalize(rec)
	require.NoError(t, err)

	dir, err := s.Create("103806")
	require.NoError(t, err)
	require.NoError(t, s.WriteRecord("103806", rec))
	require.NoError(t, s.WriteMetadata("103806", md))

	data, err := os.ReadFile(filepath.Join(dir, "103806.xml"))
	require.NoError(t, err)
	parsed, err := marc.ParseBytes(data)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "103806", parsed[0].ID())

	got, err := s.ReadMetadata("103806")
	require.NoError(t, err)
	assert.True(t, got.Get(domain.MetaTitle).Equal(domain.Single("Thalia Zepatos")))
	assert.True(t, got.Get(domain.MetaSubject).IsEmpty())
	assert.Len(t, got, len(domain.AllSemanticNames()))
}

func TestReadMetadata_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = s.Create("1")
	require.NoError(t, err)

	_, err = s.ReadMetadata("1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAndSourceFiles(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)

	for _, id := range []string{"2", "1"} {
		dir, err := s.Create(id)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte("{}"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".xml"), []byte("<collection/>"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("pdf"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("txt"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o644))

	ids, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)

	files, err := s.SourceFiles("1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "1", "a.txt"),
		filepath.Join(root, "1", "b.pdf"),
	}, files)
}
