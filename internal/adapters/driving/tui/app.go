package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/views/threads"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView     *menu.View
	chatView     *chat.View
	threadsView  *threads.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// startThread, when set, is opened on start instead of the menu.
	startThread string

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		chatView:     chat.NewView(s, km, ports.Chat),
		threadsView:  threads.NewView(s, ports.Chat),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.threadsView.WithContext(ctx)
	return a
}

// WithThread opens the chat view on threadID at start.
func (a *App) WithThread(threadID string) *App {
	a.startThread = threadID
	a.currentView = messages.ViewChat
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("willa")}
	if a.currentView == messages.ViewChat {
		cmds = append(cmds, a.chatView.Init())
		if a.startThread != "" {
			cmds = append(cmds, a.chatView.LoadThread(a.startThread))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewChat:
			return a, a.chatView.Init()
		case messages.ViewThreads:
			return a, a.threadsView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.ThreadSelected:
		a.currentView = messages.ViewChat
		return a, a.chatView.LoadThread(msg.ThreadID)

	case messages.AnswerReceived, messages.HistoryLoaded:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewThreads:
		a.threadsView, cmd = a.threadsView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewThreads:
		return a.threadsView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Chat:
  (type)      Enter a question
  enter       Ask
  ctrl+n      Start a new thread
  ↑/↓, pgup   Scroll the transcript
  quit        Typed as a question, exits

Saved threads:
  j/k, ↑/↓    Navigate
  enter       Continue the thread

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// ChatThread returns the thread shown in the chat view.
func (a *App) ChatThread() string {
	return a.chatView.ThreadID()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.threadsView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
