// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/willa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/willa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/willa/internal/core/ports/driving"
)

const masked = "********"

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists every setting and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings []messages.Setting
	selected int
	editing  bool
	input    textinput.Model
	notice   string
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	input := textinput.New()
	input.CharLimit = 512

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           input,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		keys := v.settingsService.Keys()
		out := make([]messages.Setting, 0, len(keys))
		for _, k := range keys {
			value, err := v.settingsService.Value(k)
			if err != nil {
				return messages.SettingsLoaded{Err: err}
			}
			out = append(out, messages.Setting{Key: k, Value: value})
		}
		return messages.SettingsLoaded{Settings: out}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
			if v.selected >= len(v.settings) {
				v.selected = 0
			}
		}
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.settings)-1 {
			v.selected++
		}
	case "enter":
		if len(v.settings) == 0 {
			return v, nil
		}
		current := v.settings[v.selected]
		v.editing = true
		v.notice = ""
		v.input.EchoMode = textinput.EchoNormal
		v.input.SetValue(current.Value)
		if current.Value == masked {
			v.input.EchoMode = textinput.EchoPassword
			v.input.SetValue("")
		}
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		key := v.settings[v.selected].Key
		v.editing = false
		v.input.Blur()
		if err := v.settingsService.Set(key, strings.TrimSpace(v.input.Value())); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + key
		return v, v.loadSettings()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	width := 0
	for _, s := range v.settings {
		width = max(width, len(s.Key))
	}
	for i, s := range v.settings {
		line := s.Key + strings.Repeat(" ", width-len(s.Key)+2) + s.Value
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.InputField.Render(v.input.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [Esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset leaves edit mode and clears notices.
func (v *View) Reset() {
	v.editing = false
	v.notice = ""
	v.err = nil
	v.input.Blur()
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
