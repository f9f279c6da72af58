// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
)

// ThreadList displays stored thread IDs in a navigable list.
type ThreadList struct {
	threads  []string
	selected int
	styles   *styles.Styles
	height   int
}

// NewThreadList creates an empty thread list.
func NewThreadList(s *styles.Styles) *ThreadList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ThreadList{styles: s, height: 10}
}

// Update handles list navigation keys.
func (l *ThreadList) Update(msg tea.Msg) (*ThreadList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of the list.
func (l *ThreadList) View() string {
	if len(l.threads) == 0 {
		return l.styles.Muted.Render("No saved threads")
	}

	lines := []string{l.styles.Subtitle.Render(fmt.Sprintf("Threads (%d)", len(l.threads))), ""}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.threads))

	for i := start; i < end; i++ {
		if i == l.selected {
			lines = append(lines, l.styles.Selected.Render("> "+l.threads[i]))
		} else {
			lines = append(lines, l.styles.Normal.Render("  "+l.threads[i]))
		}
	}
	return strings.Join(lines, "\n")
}

// SetThreads replaces the list contents and resets the selection.
func (l *ThreadList) SetThreads(threads []string) {
	l.threads = threads
	l.selected = 0
}

// Threads returns the listed IDs.
func (l *ThreadList) Threads() []string {
	return l.threads
}

// MoveUp moves the selection up.
func (l *ThreadList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down.
func (l *ThreadList) MoveDown() {
	if l.selected < len(l.threads)-1 {
		l.selected++
	}
}

// Selected returns the selected index.
func (l *ThreadList) Selected() int {
	return l.selected
}

// SelectedThread returns the selected ID, "" for an empty list.
func (l *ThreadList) SelectedThread() string {
	if len(l.threads) == 0 {
		return ""
	}
	return l.threads[l.selected]
}

// SetHeight sets how many lines the list may use.
func (l *ThreadList) SetHeight(height int) {
	l.height = height
}
