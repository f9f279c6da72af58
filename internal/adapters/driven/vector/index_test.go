package vector

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/willa/internal/core/domain"
)

// keywordEmbedder maps text onto three axes by keyword presence.
type keywordEmbedder struct {
	err    error
	closed bool
}

func (e *keywordEmbedder) vector(text string) []float32 {
	v := []float32{0.01, 0.01, 0.01}
	for i, kw := range []string{"marriage", "court", "music"} {
		if strings.Contains(strings.ToLower(text), kw) {
			v[i] = 1
		}
	}
	return v
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int { return 3 }
func (e *keywordEmbedder) ModelName() string { return "keywords" }
func (e *keywordEmbedder) Ping(context.Context) error { return nil }
func (e *keywordEmbedder) Close() error {
	e.closed = true
	return nil
}

func TestIndex_AddAndRetrieve(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	idx, err := NewIndex(&keywordEmbedder{}, store)
	require.NoError(t, err)

	ids, err := idx.Add(ctx, []domain.Chunk{
		{ID: "m", Content: "The fight for marriage equality"},
		{Content: "A jazz music archive"},
		{ID: "c", Content: "The supreme court ruling"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, "m", ids[0])
	assert.NotEmpty(t, ids[1])
	assert.Equal(t, "c", ids[2])

	got, err := idx.Retrieve(ctx, "what did the court decide", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestIndex_AddDoesNotMutateInput(t *testing.T) {
	idx, err := NewIndex(&keywordEmbedder{}, memory.NewVectorStore())
	require.NoError(t, err)

	in := []domain.Chunk{{Content: "music"}}
	_, err = idx.Add(context.Background(), in)
	require.NoError(t, err)

	assert.Empty(t, in[0].ID)
	assert.Nil(t, in[0].Embedding)
}

func TestIndex_EmbedError(t *testing.T) {
	boom := errors.New("embedder down")
	idx, err := NewIndex(&keywordEmbedder{err: boom}, memory.NewVectorStore())
	require.NoError(t, err)

	_, err = idx.Add(context.Background(), []domain.Chunk{{Content: "x"}})
	assert.ErrorIs(t, err, boom)

	_, err = idx.Retrieve(context.Background(), "x", 2)
	assert.ErrorIs(t, err, boom)
}

func TestIndex_EmptyInputs(t *testing.T) {
	idx, err := NewIndex(&keywordEmbedder{}, memory.NewVectorStore())
	require.NoError(t, err)

	ids, err := idx.Add(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, ids)

	got, err := idx.Retrieve(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewIndex_RequiresDependencies(t *testing.T) {
	_, err := NewIndex(nil, memory.NewVectorStore())
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = NewIndex(&keywordEmbedder{}, nil)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestIndex_CloseClosesEmbedder(t *testing.T) {
	emb := &keywordEmbedder{}
	idx, err := NewIndex(emb, memory.NewVectorStore())
	require.NoError(t, err)

	require.NoError(t, idx.Close())
	assert.True(t, emb.closed)
}
