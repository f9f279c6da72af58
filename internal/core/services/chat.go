package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driven"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
	"github.com/custodia-labs/willa/internal/logger"
)

// NoResultText is shown when a turn produced neither an answer nor citations.
const NoResultText = "I'm sorry, I couldn't generate a response."

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService runs conversation turns against persisted threads.
// Turns on the same thread are serialised; different threads run freely.
type ChatService struct {
	graph *ConversationGraph
	store driven.ThreadStore

	mu    sync.Mutex
	locks map[string]*threadLock

	now func() time.Time
}

// NewChatService creates a chat service.
func NewChatService(graph *ConversationGraph, store driven.ThreadStore) *ChatService {
	return &ChatService{
		graph: graph,
		store: store,
		locks: make(map[string]*threadLock),
		now:   time.Now,
	}
}

// NewThread returns a fresh random thread ID.
func (s *ChatService) NewThread() string {
	return uuid.NewString()
}

// threadLock guards one thread. refs counts the callers holding or
// waiting for it; the entry is removed when it drops to zero.
type threadLock struct {
	sync.Mutex
	refs int
}

// lockThread locks threadID and returns the matching unlock.
func (s *ChatService) lockThread(threadID string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[threadID]
	if !ok {
		l = &threadLock{}
		s.locks[threadID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		defer s.mu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, threadID)
		}
	}
}

// load returns the stored state of threadID, or a fresh one.
func (s *ChatService) load(ctx context.Context, threadID string) (*domain.ThreadState, error) {
	state, err := s.store.Load(ctx, threadID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ThreadState{ThreadID: threadID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", threadID, err)
	}
	return state, nil
}

// Ask runs one conversation turn. A blank question adds no human message.
// The thread is saved only when the turn succeeds.
func (s *ChatService) Ask(ctx context.Context, threadID, question string) (*domain.Answer, error) {
	if threadID == "" {
		return nil, fmt.Errorf("%w: thread ID required", domain.ErrInvalidInput)
	}

	unlock := s.lockThread(threadID)
	defer unlock()

	state, err := s.load(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(question) != "" {
		state.Messages = append(state.Messages, domain.Message{Role: domain.RoleHuman, Content: question})
	}
	before := len(state.Messages)

	next, err := s.graph.Run(ctx, state)
	if err != nil {
		return nil, err
	}
	next.ThreadID = threadID
	next.UpdatedAt = s.now()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("save thread %s: %w", threadID, err)
	}
	logger.Debug("chat: thread %s now has %d messages", threadID, len(next.Messages))

	answer := &domain.Answer{}
	for _, m := range next.Messages[before:] {
		switch m.Role {
		case domain.RoleAssistant:
			answer.AI = m.Content
		case domain.RoleAttribution:
			answer.Attribution = m.Content
		}
	}
	if answer.AI == "" && answer.Attribution == "" {
		answer.NoResult = NoResultText
	}
	return answer, nil
}

// Resume replaces the state of threadID with history, minus attribution messages.
func (s *ChatService) Resume(ctx context.Context, threadID string, history []domain.Message) error {
	if threadID == "" {
		return fmt.Errorf("%w: thread ID required", domain.ErrInvalidInput)
	}

	unlock := s.lockThread(threadID)
	defer unlock()

	state := &domain.ThreadState{
		ThreadID:  threadID,
		Messages:  domain.WithoutAttribution(history),
		UpdatedAt: s.now(),
	}
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save thread %s: %w", threadID, err)
	}
	return nil
}

// History returns the full message history of threadID.
// An unknown thread has an empty history.
func (s *ChatService) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	state, err := s.load(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return state.Messages, nil
}

// Threads lists the stored thread IDs.
func (s *ChatService) Threads(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}
