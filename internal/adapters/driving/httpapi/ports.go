package httpapi

import (
	"errors"
	"net/http"

	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("httpapi: query service is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Query answers questions and reports corpus health.
	Query driving.QueryService

	// MCP is mounted at /mcp when set.
	MCP http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
