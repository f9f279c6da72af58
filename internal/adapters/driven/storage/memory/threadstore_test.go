package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/core/domain"
)

func TestThreadStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := NewThreadStore(time.Hour)

	state := &domain.ThreadState{
		ThreadID: "t1",
		Messages: []domain.Message{{Role: domain.RoleHuman, Content: "hello"}},
	}
	require.NoError(t, store.Save(ctx, state))
	state.Messages[0].Content = "mutated"

	got, err := store.Load(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestThreadStore_LoadUnknown(t *testing.T) {
	_, err := NewThreadStore(0).Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestThreadStore_ThreadsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewThreadStore(0)

	require.NoError(t, store.Save(ctx, &domain.ThreadState{ThreadID: "a", Summary: "A"}))
	require.NoError(t, store.Save(ctx, &domain.ThreadState{ThreadID: "b", Summary: "B"}))

	a, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", a.Summary)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "never-existed"))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestThreadStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewThreadStore(20 * time.Millisecond)

	require.NoError(t, store.Save(ctx, &domain.ThreadState{ThreadID: "t"}))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Load(ctx, "t")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestThreadStore_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewThreadStore(0)

	require.NoError(t, store.Save(ctx, &domain.ThreadState{ThreadID: "t"}))
	items := store.cache.Items()
	require.Contains(t, items, "t")
	assert.Zero(t, items["t"].Expiration)

	_, err := store.Load(ctx, "t")
	assert.NoError(t, err)
}

func TestThreadStore_SaveRequiresID(t *testing.T) {
	err := NewThreadStore(0).Save(context.Background(), &domain.ThreadState{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
