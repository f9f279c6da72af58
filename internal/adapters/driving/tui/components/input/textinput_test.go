package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewQuestionInput_StartsFocused(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.True(t, q.Focused())
	assert.Empty(t, q.Value())
	assert.NotNil(t, q.Init())
}

func TestQuestionInput_TypingAndReset(t *testing.T) {
	q := NewQuestionInput(nil)

	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("who")})
	assert.Equal(t, "who", q.Value())
	assert.Contains(t, q.View(), "You:")

	q.Reset()
	assert.Empty(t, q.Value())
}

func TestQuestionInput_FocusAndBlur(t *testing.T) {
	q := NewQuestionInput(nil)

	q.Blur()
	assert.False(t, q.Focused())
	q.Focus()
	assert.True(t, q.Focused())
}

func TestQuestionInput_SetWidthHasFloor(t *testing.T) {
	q := NewQuestionInput(nil)

	q.SetWidth(12)
	assert.Equal(t, 12, q.Width())
	assert.Equal(t, 20, q.textinput.Width)

	q.SetWidth(100)
	assert.Equal(t, 90, q.textinput.Width)
}
