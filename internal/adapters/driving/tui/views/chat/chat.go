// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/willa/internal/core/domain"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// View is the conversation view: transcript, question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	threadID string
	pending  bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewQuestionInput(s),
		transcript:  transcript.New(s),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts a thread when none is active.
func (v *View) Init() tea.Cmd {
	if v.threadID == "" {
		v.startThread()
	}
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.threadID = msg.ThreadID
		v.statusbar.SetThread(msg.ThreadID)
		v.transcript.SetMessages(msg.Messages)
		v.statusbar.Clear()
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case keymap.Matches(msg.String(), v.keymap.NewThread):
		if v.pending {
			return v, nil
		}
		v.startThread()
		return v, nil

	case msg.Type == tea.KeyEnter:
		question := strings.TrimSpace(v.input.Value())
		if question == "" || v.pending {
			return v, nil
		}
		if strings.EqualFold(question, "quit") {
			return v, tea.Quit
		}
		v.input.Reset()
		v.transcript.Append(domain.Message{Role: domain.RoleHuman, Content: question})
		v.pending = true
		v.err = nil
		v.statusbar.SetState(status.StateThinking)
		return v, tea.Batch(v.ask(question), v.statusbar.Tick())

	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown || msg.Type == tea.KeyUp || msg.Type == tea.KeyDown:
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask runs one turn in the background.
func (v *View) ask(question string) tea.Cmd {
	threadID := v.threadID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.AnswerReceived{ThreadID: threadID, Err: ErrNoChatService}
		}
		answer, err := v.chatService.Ask(v.ctx, threadID, question)
		return messages.AnswerReceived{ThreadID: threadID, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	if msg.ThreadID != v.threadID {
		return
	}
	v.pending = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.err = nil
	v.statusbar.Clear()

	a := msg.Answer
	switch {
	case a == nil:
	case a.NoResult != "":
		v.transcript.Append(domain.Message{Role: domain.RoleAssistant, Content: a.NoResult})
	default:
		if a.AI != "" {
			v.transcript.Append(domain.Message{Role: domain.RoleAssistant, Content: a.AI})
		}
		if a.Attribution != "" {
			v.transcript.Append(domain.Message{Role: domain.RoleAttribution, Content: a.Attribution})
		}
	}
}

// LoadThread returns a command fetching the history of threadID.
func (v *View) LoadThread(threadID string) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryLoaded{ThreadID: threadID, Err: ErrNoChatService}
		}
		history, err := v.chatService.History(v.ctx, threadID)
		return messages.HistoryLoaded{ThreadID: threadID, Messages: history, Err: err}
	}
}

func (v *View) startThread() {
	if v.chatService != nil {
		v.threadID = v.chatService.NewThread()
	}
	v.pending = false
	v.err = nil
	v.transcript.SetMessages(nil)
	v.statusbar.Clear()
	v.statusbar.SetThread(v.threadID)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Willa") + v.styles.Muted.Render("  oral history assistant"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Header, spacers, bordered input and status bar.
	v.transcript.SetSize(width, height-8)
	v.statusbar.SetWidth(width)
}

// ThreadID returns the active thread.
func (v *View) ThreadID() string {
	return v.threadID
}

// Pending reports whether a turn is in flight.
func (v *View) Pending() bool {
	return v.pending
}

// Messages returns the shown transcript.
func (v *View) Messages() []domain.Message {
	return v.transcript.Messages()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
