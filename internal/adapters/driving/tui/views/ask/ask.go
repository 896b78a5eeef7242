// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/components/input"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/components/list"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/components/status"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/keymap"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/messages"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driving/tui/styles"
	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

// ErrNoQueryService is returned when no query service is configured.
var ErrNoQueryService = errors.New("query service not available")

// View holds the question input, the answer viewport and the cited sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	answer    viewport.Model
	citations *list.CitationList
	spinner   spinner.Model
	statusbar *status.Bar

	queryService driving.QueryService
	ctx          context.Context

	question   string
	result     *domain.Answer
	thinking   bool
	focusInput bool
	err        error

	width  int
	height int
	ready  bool
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Spinner

	return &View{
		styles:       s,
		keymap:       km,
		input:        input.NewQuestionInput(s),
		answer:       viewport.New(80, 10),
		citations:    list.NewCitationList(s),
		spinner:      sp,
		statusbar:    status.NewBar(s, km),
		queryService: queryService,
		ctx:          context.Background(),
		focusInput:   true,
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.thinking {
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			return v, v.submit(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Up), keymap.Matches(msg.String(), v.keymap.Down):
		v.citations, _ = v.citations.Update(msg)
		return v, nil
	}

	var cmd tea.Cmd
	v.answer, cmd = v.answer.Update(msg)
	return v, cmd
}

func (v *View) submit(question string) tea.Cmd {
	v.question = question
	v.thinking = true
	v.err = nil
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateThinking)

	return tea.Batch(v.spinner.Tick, v.performAsk(question))
}

func (v *View) performAsk(question string) tea.Cmd {
	ctx := v.ctx
	svc := v.queryService
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoQueryService}
		}
		start := time.Now()
		answer, err := svc.Ask(ctx, domain.Query{Question: question})
		return messages.AnswerReceived{
			Question: question,
			Answer:   answer,
			Elapsed:  time.Since(start),
			Err:      err,
		}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	if msg.Err != nil {
		v.err = msg.Err
		v.result = nil
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.focusInput = true
		v.input.Focus()
		return
	}

	answer := msg.Answer
	v.err = nil
	v.result = &answer
	v.citations.SetLinks(answer.Links)
	v.answer.SetContent(v.styles.Answer.Width(max(v.width-4, 20)).Render(answer.Text))
	v.answer.GotoTop()
	v.statusbar.SetAnswered(len(answer.Links), msg.Elapsed)
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("TDS Virtual TA"), "", v.input.View(), "")

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("Searching the course material..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.result != nil:
		sections = append(sections,
			v.styles.Muted.Render("Q: "+v.question), "",
			v.answer.View(), "",
			v.citations.View(),
		)
	default:
		sections = append(sections, v.styles.Muted.Render("Type a question and press enter."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Header, input, question line, status bar and spacing.
	body := max(height-12, 6)
	answerHeight := body * 2 / 3

	v.input.SetWidth(width)
	v.answer.Width = width
	v.answer.Height = answerHeight
	v.citations.SetDimensions(width, body-answerHeight)
	v.statusbar.SetWidth(width)
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.focusInput = true
	v.thinking = false
	v.input.SetValue("")
	v.input.Focus()
	v.question = ""
	v.result = nil
	v.err = nil
	v.citations.SetLinks(nil)
	v.answer.SetContent("")
	v.statusbar.Clear()
}

// Question returns the last submitted question.
func (v *View) Question() string {
	return v.question
}

// Answer returns the last answer, or nil if none.
func (v *View) Answer() *domain.Answer {
	return v.result
}

// Thinking reports whether a question is in flight.
func (v *View) Thinking() bool {
	return v.thinking
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
