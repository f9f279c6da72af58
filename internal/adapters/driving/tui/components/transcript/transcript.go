// Package transcript renders a conversation in a scrollable viewport.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/willa/internal/core/domain"
)

// Transcript shows the messages of one thread, newest at the bottom.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	messages []domain.Message
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{viewport: viewport.New(80, 16), styles: s}
}

// Update forwards scrolling keys to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// Append adds messages and scrolls to the bottom.
func (t *Transcript) Append(msgs ...domain.Message) {
	t.messages = append(t.messages, msgs...)
	t.refresh()
}

// SetMessages replaces the transcript.
func (t *Transcript) SetMessages(msgs []domain.Message) {
	t.messages = append([]domain.Message(nil), msgs...)
	t.refresh()
}

// Messages returns the shown messages.
func (t *Transcript) Messages() []domain.Message {
	return t.messages
}

// SetSize resizes the viewport.
func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = max(height, 3)
	t.refresh()
}

func (t *Transcript) refresh() {
	wrap := lipgloss.NewStyle().Width(max(t.viewport.Width-2, 10))
	blocks := make([]string, 0, len(t.messages))
	for _, m := range t.messages {
		blocks = append(blocks, t.render(m, wrap))
	}
	t.viewport.SetContent(strings.Join(blocks, "\n\n"))
	t.viewport.GotoBottom()
}

func (t *Transcript) render(m domain.Message, wrap lipgloss.Style) string {
	switch m.Role {
	case domain.RoleHuman:
		return t.styles.Human.Render("You") + "\n" + wrap.Render(m.Content)
	case domain.RoleAssistant:
		return t.styles.Assistant.Render("Willa") + "\n" + wrap.Render(m.Content)
	case domain.RoleAttribution:
		return t.styles.Attribution.Render(wrap.Render(m.Content))
	default:
		return t.styles.Muted.Render(wrap.Render(m.Content))
	}
}
