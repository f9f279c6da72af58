package memory

import (
	"context"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
)

// Ensure ThreadStore implements the interface.
var _ driven.ThreadStore = (*ThreadStore)(nil)

const defaultCleanupInterval = 10 * time.Minute

// ThreadStore keeps conversation state in an in-process cache. Threads
// live for the life of the process unless a positive TTL is given, in
// which case idle threads are dropped after it.
type ThreadStore struct {
	cache *cache.Cache
}

// NewThreadStore creates a thread store. A ttl of zero or less never expires entries.
func NewThreadStore(ttl time.Duration) *ThreadStore {
	if ttl <= 0 {
		return &ThreadStore{cache: cache.New(cache.NoExpiration, 0)}
	}
	return &ThreadStore{cache: cache.New(ttl, defaultCleanupInterval)}
}

// Load returns a copy of the stored state.
func (s *ThreadStore) Load(_ context.Context, threadID string) (*domain.ThreadState, error) {
	x, found := s.cache.Get(threadID)
	if !found {
		return nil, domain.ErrNotFound
	}
	return x.(*domain.ThreadState).Clone(), nil
}

// Save stores a copy of state, resetting its expiry.
func (s *ThreadStore) Save(_ context.Context, state *domain.ThreadState) error {
	if state == nil || state.ThreadID == "" {
		return domain.ErrInvalidInput
	}
	s.cache.Set(state.ThreadID, state.Clone(), cache.DefaultExpiration)
	return nil
}

// Delete removes a thread.
func (s *ThreadStore) Delete(_ context.Context, threadID string) error {
	s.cache.Delete(threadID)
	return nil
}

// List returns the IDs of unexpired threads, sorted.
func (s *ThreadStore) List(_ context.Context) ([]string, error) {
	items := s.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op.
func (s *ThreadStore) Close() error {
	return nil
}
