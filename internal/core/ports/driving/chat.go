package driving

import (
	"context"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// ChatService manages chat threads for frontends.
type ChatService interface {
	// NewThread returns a fresh thread ID.
	NewThread() string

	// Ask runs one conversation turn on threadID.
	Ask(ctx context.Context, threadID, question string) (*domain.Answer, error)

	// Resume replaces the state of threadID with history, minus attribution messages.
	Resume(ctx context.Context, threadID string, history []domain.Message) error

	// History returns the full message history of threadID.
	History(ctx context.Context, threadID string) ([]domain.Message, error)

	// Threads lists the stored thread IDs.
	Threads(ctx context.Context) ([]string, error)
}
