// Package threads provides the saved-thread browser for the TUI.
package threads

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// View lists stored threads and opens one in the chat view.
type View struct {
	styles      *styles.Styles
	list        *list.ThreadList
	chatService driving.ChatService
	ctx         context.Context
	err         error
	ready       bool
}

// NewView creates a threads view.
func NewView(s *styles.Styles, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:      s,
		list:        list.NewThreadList(s),
		chatService: chatService,
		ctx:         context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the thread list.
func (v *View) Init() tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ThreadsLoaded{Err: ErrNoChatService}
		}
		ids, err := v.chatService.Threads(v.ctx)
		return messages.ThreadsLoaded{Threads: ids, Err: err}
	}
}

// Update handles messages for the threads view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ThreadsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetThreads(msg.Threads)
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "enter":
			id := v.list.SelectedThread()
			if id == "" {
				return v, nil
			}
			return v, func() tea.Msg { return messages.ThreadSelected{ThreadID: id} }
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Saved threads"))
	b.WriteString("\n\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.ready = true
	v.list.SetHeight(height - 6)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
