package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

func TestFetch_ByID(t *testing.T) {
	ingest, _, _ := setupTestServices(t)

	out, err := execute(t, "", "fetch", "--tind-id", "103806")

	require.NoError(t, err)
	assert.Equal(t, []string{"103806"}, ingest.fetched)
	assert.Empty(t, ingest.queries)
	assert.Contains(t, out, "Ingested 1 record(s): 2 file(s), 7 chunk(s)")
}

func TestFetch_ByQuery(t *testing.T) {
	ingest, _, _ := setupTestServices(t)
	ingest.stats = &driving.IngestStats{Records: 3, Failed: 1, Files: 4, Chunks: 20}

	out, err := execute(t, "", "fetch", "--query", `336__a:"Audio"`)

	require.NoError(t, err)
	assert.Equal(t, []string{`336__a:"Audio"`}, ingest.queries)
	assert.Contains(t, out, "Ingested 3 record(s)")
	assert.Contains(t, out, "1 record(s) failed")
}

func TestFetch_RequiresOneFlag(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "fetch")
	require.Error(t, err)
}

func TestFetch_FlagsAreExclusive(t *testing.T) {
	ingest, _, _ := setupTestServices(t)

	_, err := execute(t, "", "fetch", "--tind-id", "1", "--query", "x")

	require.Error(t, err)
	assert.Empty(t, ingest.fetched)
	assert.Empty(t, ingest.queries)
}

func TestFetch_ErrorPropagates(t *testing.T) {
	ingest, _, _ := setupTestServices(t)
	boom := errors.New("catalogue down")
	ingest.err = boom

	_, err := execute(t, "", "fetch", "--tind-id", "1")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestIndex_Reindexes(t *testing.T) {
	ingest, _, _ := setupTestServices(t)

	out, err := execute(t, "", "index")

	require.NoError(t, err)
	assert.Equal(t, 1, ingest.reindexed)
	assert.Contains(t, out, "7 chunk(s)")
}

func TestIndex_NilStats(t *testing.T) {
	ingest, _, _ := setupTestServices(t)
	ingest.stats = nil

	out, err := execute(t, "", "index")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 0 record(s)")
}
