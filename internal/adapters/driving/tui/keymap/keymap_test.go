package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
	assert.Equal(t, []string{"n"}, km.NewQuestion.Keys())
	assert.Equal(t, []string{"r"}, km.Refresh.Keys())
}

func TestHelpGroups(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 2)
	assert.Len(t, km.AnswerHelp(), 4)
	assert.Len(t, km.FullHelp(), 3)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		key     string
		matches bool
	}{
		{"arrow up", "up", true},
		{"vim up", "k", true},
		{"other", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, Matches(tt.key, km.Up))
		})
	}
}
