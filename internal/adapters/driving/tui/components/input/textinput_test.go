package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestNewQuestionInput(t *testing.T) {
	q := NewQuestionInput(nil)
	assert.True(t, q.Focused())
	assert.Empty(t, q.Value())
	assert.Equal(t, 60, q.Width())
}

func TestQuestionInput_Typing(t *testing.T) {
	q := NewQuestionInput(nil)
	q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("GA5")})
	assert.Equal(t, "GA5", q.Value())

	q.Reset()
	assert.Empty(t, q.Value())
}

func TestQuestionInput_FocusBlur(t *testing.T) {
	q := NewQuestionInput(nil)
	q.Blur()
	assert.False(t, q.Focused())
	q.Focus()
	assert.True(t, q.Focused())
}

func TestQuestionInput_SetWidthClamps(t *testing.T) {
	q := NewQuestionInput(nil)
	q.SetWidth(12)
	assert.Equal(t, 12, q.Width())
	assert.Contains(t, q.View(), "Ask:")
}
