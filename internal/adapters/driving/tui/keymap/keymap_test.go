package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Quit.Keys(), "ctrl+c")
	assert.Contains(t, km.Quit.Keys(), "esc")
	assert.Contains(t, km.Send.Keys(), "enter")
	assert.Contains(t, km.ScrollUp.Keys(), "pgup")
	assert.Contains(t, km.ScrollDown.Keys(), "pgdown")
	assert.Contains(t, km.NewSession.Keys(), "ctrl+n")
}

func TestDefaultKeyMap_NoLetterKeys(t *testing.T) {
	km := DefaultKeyMap()

	for _, b := range km.ShortHelp() {
		for _, k := range b.Keys() {
			assert.Greater(t, len(k), 1, "binding %q would swallow typed text", k)
		}
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("enter", km.Send))
	assert.True(t, Matches("ctrl+u", km.ScrollUp))
	assert.False(t, Matches("q", km.Quit))
}
