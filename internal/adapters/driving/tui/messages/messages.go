// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/willa/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversation view.
	ViewChat
	// ViewThreads lists stored threads.
	ViewThreads
	// ViewSettings shows the effective settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewThreads:
		return "threads"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// AnswerReceived carries the result of one conversation turn.
type AnswerReceived struct {
	ThreadID string
	Answer   *domain.Answer
	Err      error
}

// ThreadsLoaded carries the stored thread IDs.
type ThreadsLoaded struct {
	Threads []string
	Err     error
}

// ThreadSelected asks the chat view to continue a stored thread.
type ThreadSelected struct {
	ThreadID string
}

// HistoryLoaded carries the messages of a resumed thread.
type HistoryLoaded struct {
	ThreadID string
	Messages []domain.Message
	Err      error
}

// Setting is one displayed key/value pair.
type Setting struct {
	Key   string
	Value string
}

// SettingsLoaded carries the effective settings.
type SettingsLoaded struct {
	Settings []Setting
	Err      error
}
