// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/styles"
	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// CitationList displays the sources cited by an answer.
type CitationList struct {
	links    []domain.CitationLink
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewCitationList creates a new citation list component.
func NewCitationList(s *styles.Styles) *CitationList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &CitationList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (c *CitationList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *CitationList) Update(msg tea.Msg) (*CitationList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the list.
func (c *CitationList) View() string {
	if len(c.links) == 0 {
		return c.styles.Muted.Render("No sources cited")
	}

	lines := make([]string, 0, len(c.links)*2+2)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(c.links))), "")

	// Each citation takes two lines.
	visible := (c.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if c.selected >= visible {
		start = c.selected - visible + 1
	}
	end := min(start+visible, len(c.links))

	for i := start; i < end; i++ {
		lines = append(lines, c.renderLink(i, c.links[i]))
	}

	return strings.Join(lines, "\n")
}

func (c *CitationList) renderLink(index int, link domain.CitationLink) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	text := truncate(link.Text, c.width-6)
	url := truncate(link.URL, c.width-6)

	var textLine string
	if index == c.selected {
		textLine = c.styles.Selected.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, text))
	} else {
		textLine = c.styles.Normal.Render(fmt.Sprintf("%s%d. %s", indicator, index+1, text))
	}
	return textLine + "\n" + "     " + c.styles.Link.Render(url)
}

func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// SetLinks replaces the list contents.
func (c *CitationList) SetLinks(links []domain.CitationLink) {
	c.links = links
	c.selected = 0
}

// Links returns the current citations.
func (c *CitationList) Links() []domain.CitationLink {
	return c.links
}

// Selected returns the index of the selected citation.
func (c *CitationList) Selected() int {
	return c.selected
}

// SelectedLink returns the currently selected citation, or nil if none.
func (c *CitationList) SelectedLink() *domain.CitationLink {
	if c.selected < 0 || c.selected >= len(c.links) {
		return nil
	}
	return &c.links[c.selected]
}

// MoveUp moves selection up.
func (c *CitationList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *CitationList) MoveDown() {
	if c.selected < len(c.links)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *CitationList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of citations.
func (c *CitationList) Count() int {
	return len(c.links)
}
