// Package tui provides an interactive terminal user interface for the teaching assistant.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Query answers questions and reports corpus health.
	Query driving.QueryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
