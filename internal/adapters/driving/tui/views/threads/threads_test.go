package threads

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/core/domain"
)

type fakeChat struct {
	ids []string
	err error
}

func (f *fakeChat) NewThread() string { return "new" }
func (f *fakeChat) Ask(context.Context, string, string) (*domain.Answer, error) {
	return nil, nil
}
func (f *fakeChat) Resume(context.Context, string, []domain.Message) error { return nil }
func (f *fakeChat) History(context.Context, string) ([]domain.Message, error) {
	return nil, nil
}
func (f *fakeChat) Threads(context.Context) ([]string, error) { return f.ids, f.err }

func TestView_SelectThread(t *testing.T) {
	v := NewView(nil, &fakeChat{ids: []string{"alpha", "beta"}})
	v.SetDimensions(80, 24)
	v, _ = v.Update(v.Init()())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ThreadSelected{ThreadID: "beta"}, cmd())
}

func TestView_EmptyListEnterDoesNothing(t *testing.T) {
	v := NewView(nil, &fakeChat{})
	v.SetDimensions(80, 24)
	v, _ = v.Update(v.Init()())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, v.View(), "No saved threads")
}

func TestView_LoadError(t *testing.T) {
	v := NewView(nil, &fakeChat{err: errors.New("bolt closed")})
	v.SetDimensions(80, 24)
	v, _ = v.Update(v.Init()())

	assert.EqualError(t, v.Err(), "bolt closed")
	assert.Contains(t, v.View(), "bolt closed")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()().(messages.ThreadsLoaded)

	assert.ErrorIs(t, msg.Err, ErrNoChatService)
}
