package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionInput(t *testing.T) {
	q := NewQuestionInput(nil)

	require.NotNil(t, q)
	assert.NotNil(t, q.styles)
	assert.Equal(t, "", q.Value())
	assert.True(t, q.Focused())
}

func TestQuestionInput_Init(t *testing.T) {
	assert.NotNil(t, NewQuestionInput(nil).Init())
}

func TestQuestionInput_Typing(t *testing.T) {
	q := NewQuestionInput(nil)

	for _, r := range "bp?" {
		q, _ = q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "bp?", q.Value())
}

func TestQuestionInput_SetValueAndReset(t *testing.T) {
	q := NewQuestionInput(nil)

	q.SetValue("What is my HbA1c?")
	assert.Equal(t, "What is my HbA1c?", q.Value())

	q.Reset()
	assert.Equal(t, "", q.Value())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	q := NewQuestionInput(nil)

	q.SetWidth(100)
	assert.Equal(t, 100, q.Width())
	assert.Equal(t, 88, q.textinput.Width)

	q.SetWidth(10)
	assert.Equal(t, 20, q.textinput.Width)
}

func TestQuestionInput_View(t *testing.T) {
	assert.Contains(t, NewQuestionInput(nil).View(), "Ask:")
}
