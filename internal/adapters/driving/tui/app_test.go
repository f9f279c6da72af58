package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/core/domain"
)

func newTestApp(t *testing.T, chat *MockChatService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Chat: chat})
	require.NoError(t, err)
	app.WithContext(context.Background())
	app.SetDimensions(100, 30)
	return app
}

func update(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	require.Same(t, app, model)
	return cmd
}

func TestNewApp_RequiresChat(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)
}

func TestApp_StartsOnMenu(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &MockChatService{}})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	update(t, app, tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Contains(t, app.View(), "Willa")
}

func TestApp_ChatRoundTrip(t *testing.T) {
	chat := &MockChatService{}
	app := newTestApp(t, chat)

	update(t, app, messages.ViewChanged{View: messages.ViewChat})
	assert.Equal(t, "thread-new", app.ChatThread())

	update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("who?")})
	cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if msg, ok := c().(messages.AnswerReceived); ok {
			update(t, app, msg)
		}
	}

	assert.Equal(t, []string{"who?"}, chat.Asked())
	assert.Contains(t, app.View(), "answer to who?")
}

func TestApp_ThreadSelectionOpensChat(t *testing.T) {
	chat := &MockChatService{Stored: map[string][]domain.Message{
		"saved": {{Role: domain.RoleHuman, Content: "from last week"}},
	}}
	app := newTestApp(t, chat)

	cmd := update(t, app, messages.ViewChanged{View: messages.ViewThreads})
	update(t, app, cmd())
	assert.Contains(t, app.View(), "saved")

	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd = update(t, app, cmd())
	require.NotNil(t, cmd)
	update(t, app, cmd())

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, "saved", app.ChatThread())
	assert.Contains(t, app.View(), "from last week")
}

func TestApp_WithThreadStartsInChat(t *testing.T) {
	chat := &MockChatService{Stored: map[string][]domain.Message{
		"resume-me": {{Role: domain.RoleAssistant, Content: "welcome back"}},
	}}
	app := newTestApp(t, chat).WithThread("resume-me")

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	require.NotNil(t, app.Init())

	update(t, app, app.chatView.LoadThread("resume-me")())
	assert.Equal(t, "resume-me", app.ChatThread())
}

func TestApp_HelpAndBack(t *testing.T) {
	app := newTestApp(t, &MockChatService{})

	update(t, app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "ctrl+n")

	update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, &MockChatService{})

	cmd := update(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_SettingsWithoutServiceShowsError(t *testing.T) {
	app := newTestApp(t, &MockChatService{})

	cmd := update(t, app, messages.ViewChanged{View: messages.ViewSettings})
	update(t, app, cmd())

	assert.Contains(t, app.View(), "settings service not available")
}
