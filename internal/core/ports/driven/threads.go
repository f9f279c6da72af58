package driven

import (
	"context"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// ThreadStore persists conversation state keyed by thread ID.
// Two thread IDs never share state.
type ThreadStore interface {
	// Load returns the state for threadID, or domain.ErrNotFound.
	Load(ctx context.Context, threadID string) (*domain.ThreadState, error)

	// Save replaces the state for state.ThreadID.
	Save(ctx context.Context, state *domain.ThreadState) error

	// Delete removes a thread. Deleting an unknown thread is not an error.
	Delete(ctx context.Context, threadID string) error

	// List returns every stored thread ID.
	List(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
