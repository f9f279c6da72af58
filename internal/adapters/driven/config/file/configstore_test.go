package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("tind.api_url", "https://example.org/api/v1"))
	require.NoError(t, store.Set("chat.top_k", 6))
	require.NoError(t, store.Set("tind.rate", 2.5))

	assert.Equal(t, "https://example.org/api/v1", store.GetString("tind.api_url"))
	assert.Equal(t, 6, store.GetInt("chat.top_k"))
	assert.Equal(t, 2.5, store.GetFloat("tind.rate"))
	assert.Equal(t, 6.0, store.GetFloat("chat.top_k"))

	assert.Equal(t, "", store.GetString("chat.top_k"))
	assert.Equal(t, 0, store.GetInt("tind.api_url"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("chat.top_k", 8))
	require.NoError(t, store.Set("vector.uri", "memory://"))
	require.NoError(t, store.Set("log_file", "/tmp/willa.log"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[chat]")
	assert.Contains(t, string(raw), "[vector]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, 8, reloaded.GetInt("chat.top_k"))
	assert.Equal(t, "memory://", reloaded.GetString("vector.uri"))
	assert.Equal(t, []string{"chat.top_k", "log_file", "vector.uri"}, reloaded.Keys())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[tind]
api_url = "https://digicoll.lib.berkeley.edu/api/v1"
rate = 3

[ingest]
workers = 4
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 4, store.GetInt("ingest.workers"))
	assert.Equal(t, 3.0, store.GetFloat("tind.rate"))
}

func TestNestMap_ValueWinsOverTable(t *testing.T) {
	nested := nestMap(map[string]any{"a": 1, "a.b": 2, "c.d.e": "x"})

	assert.Equal(t, 1, nested["a"])
	assert.Equal(t, map[string]any{"d": map[string]any{"e": "x"}}, nested["c"])
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// Replace the file with a directory so the write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("chat.top_k", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("chat.top_k")
		}()
	}
	wg.Wait()

	_, ok := store.Get("chat.top_k")
	assert.True(t, ok)
}
