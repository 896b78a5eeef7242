// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// AnswerReceived carries the assistant's answer back to the model.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
	Elapsed  time.Duration
	Err      error
}

// HealthLoaded carries corpus statistics back to the model.
type HealthLoaded struct {
	Stats domain.CorpusStats
	Err   error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAsk is the question input and answer view.
	ViewAsk
	// ViewHealth shows ingestion progress per source.
	ViewHealth
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAsk:
		return "ask"
	case ViewHealth:
		return "health"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
