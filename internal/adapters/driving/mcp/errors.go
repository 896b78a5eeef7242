// Package mcp provides an MCP (Model Context Protocol) server adapter for the teaching assistant.
// It lets AI assistants ask course questions and inspect corpus ingestion progress.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
