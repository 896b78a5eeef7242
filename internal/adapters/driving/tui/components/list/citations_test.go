package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

func sampleLinks() []domain.CitationLink {
	return []domain.CitationLink{
		{URL: "https://discourse.onlinedegree.iitm.ac.in/t/ga5-question-8/155939/4", Text: "Use the model mentioned in the question"},
		{URL: "https://discourse.onlinedegree.iitm.ac.in/t/ga5-question-8/155939/3", Text: "Tokenizer counts differ"},
		{URL: "https://tds.s-anand.net/#/docker", Text: "Docker"},
	}
}

func TestCitationList_Empty(t *testing.T) {
	c := NewCitationList(nil)
	assert.Contains(t, c.View(), "No sources cited")
	assert.Nil(t, c.SelectedLink())
}

func TestCitationList_Navigation(t *testing.T) {
	c := NewCitationList(nil)
	c.SetLinks(sampleLinks())
	assert.Equal(t, 3, c.Count())

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, c.Selected())

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, c.Selected())

	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	require.NotNil(t, c.SelectedLink())
	assert.Equal(t, "Tokenizer counts differ", c.SelectedLink().Text)

	c.SetLinks(sampleLinks()[:1])
	assert.Equal(t, 0, c.Selected())
}

func TestCitationList_View(t *testing.T) {
	c := NewCitationList(nil)
	c.SetLinks(sampleLinks())

	view := c.View()
	assert.Contains(t, view, "Sources (3)")
	assert.Contains(t, view, "Docker")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	long := strings.Repeat("a", 50)
	got := truncate(long, 20)
	assert.Len(t, got, 20)
	assert.True(t, strings.HasSuffix(got, "..."))
}
