package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the student's question about the course"`
	Image    string `json:"image,omitempty" jsonschema:"optional base64-encoded screenshot attached to the question"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string       `json:"answer"`
	Links  []LinkOutput `json:"links"`
}

// LinkOutput is a single citation.
type LinkOutput struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// HealthOutput is the output schema for the health tool.
type HealthOutput struct {
	Status    string               `json:"status"`
	APIKeySet bool                 `json:"api_key_set"`
	Sources   []domain.SourceStats `json:"sources"`
	CheckedAt time.Time            `json:"checked_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a course question from forum posts and course material, with citations",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "health",
		Description: "Report chunk and embedding counts for each indexed source",
	}, s.handleHealth)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Query.Ask(ctx, domain.Query{
		Question: input.Question,
		Image:    input.Image,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer: answer.Text,
		Links:  make([]LinkOutput, len(answer.Links)),
	}
	for i, link := range answer.Links {
		output.Links[i] = LinkOutput{URL: link.URL, Text: link.Text}
	}

	return nil, output, nil
}

// handleHealth handles the health tool invocation.
func (s *Server) handleHealth(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, HealthOutput, error) {
	stats, err := s.ports.Query.Health(ctx)
	if err != nil {
		return nil, HealthOutput{}, err
	}

	sources := stats.Sources
	if sources == nil {
		sources = []domain.SourceStats{}
	}

	return nil, HealthOutput{
		Status:    "healthy",
		APIKeySet: stats.APIKeySet,
		Sources:   sources,
		CheckedAt: time.Now().UTC(),
	}, nil
}
