// Package health provides the corpus ingestion view for the TUI.
package health

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/keymap"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/messages"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/styles"
	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

const barWidth = 30

var errNoQueryService = errors.New("query service not available")

// View shows chunk and embedding counts per source.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	queryService driving.QueryService
	ctx          context.Context

	stats   *domain.CorpusStats
	loading bool
	err     error

	width  int
	height int
	ready  bool
}

// NewView creates a new health view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:       s,
		keymap:       km,
		queryService: queryService,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the stats.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx := v.ctx
	svc := v.queryService
	return func() tea.Msg {
		if svc == nil {
			return messages.HealthLoaded{Err: errNoQueryService}
		}
		stats, err := svc.Health(ctx)
		return messages.HealthLoaded{Stats: stats, Err: err}
	}
}

// Update handles messages for the health view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.HealthLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.stats = nil
			return v, nil
		}
		stats := msg.Stats
		v.err = nil
		v.stats = &stats

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the health view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Corpus health"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("unhealthy: " + v.err.Error()))
	case v.stats != nil:
		v.renderStats(&b, *v.stats)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[r] Refresh  [Esc] Back"))
	return b.String()
}

func (v *View) renderStats(b *strings.Builder, stats domain.CorpusStats) {
	for _, kind := range domain.AllSourceKinds() {
		s := stats.For(kind)
		label := sourceLabel(kind)
		fmt.Fprintf(b, "%-18s %s %d/%d embedded",
			label, v.styles.Bar(s.Embedded, s.Chunks, barWidth), s.Embedded, s.Chunks)
		if !s.Complete() {
			b.WriteString("  " + v.styles.Warning.Render("incomplete"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if stats.APIKeySet {
		b.WriteString(v.styles.Success.Render("API key set"))
	} else {
		b.WriteString(v.styles.Warning.Render("API key not set"))
	}
}

func sourceLabel(kind domain.SourceKind) string {
	switch kind {
	case domain.SourceForumPost:
		return "Discourse posts"
	case domain.SourceDocumentPage:
		return "Course material"
	default:
		return kind.String()
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Stats returns the loaded stats, or nil.
func (v *View) Stats() *domain.CorpusStats {
	return v.stats
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}
