package mcp

import (
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Query answers questions over the corpus.
	Query driving.QueryService

	// Settings exposes the active retrieval settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
