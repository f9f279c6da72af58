package tui

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	mu      sync.Mutex
	asked   []string
	AskFunc func(ctx context.Context, threadID, question string) (*domain.Answer, error)
	Stored  map[string][]domain.Message
}

var _ driving.ChatService = (*MockChatService)(nil)

func (m *MockChatService) NewThread() string { return "thread-new" }

func (m *MockChatService) Ask(ctx context.Context, threadID, question string) (*domain.Answer, error) {
	m.mu.Lock()
	m.asked = append(m.asked, question)
	m.mu.Unlock()
	if m.AskFunc != nil {
		return m.AskFunc(ctx, threadID, question)
	}
	return &domain.Answer{AI: "answer to " + question}, nil
}

func (m *MockChatService) Resume(context.Context, string, []domain.Message) error { return nil }

func (m *MockChatService) History(_ context.Context, threadID string) ([]domain.Message, error) {
	return m.Stored[threadID], nil
}

func (m *MockChatService) Threads(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Stored))
	for id := range m.Stored {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrInvalidPorts)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingChatService)
	assert.NoError(t, (&Ports{Chat: &MockChatService{}}).Validate())
}

// Asked returns the questions received so far.
func (m *MockChatService) Asked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asked...)
}
