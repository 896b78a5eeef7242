package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Resource URIs.
const (
	uriCorpusStats = "tds://corpus/stats"
	uriRetrieval   = "tds://settings/retrieval"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriCorpusStats,
		Name:        "corpus-stats",
		Description: "Chunk and embedding counts for forum posts and course material",
		MIMEType:    "application/json",
	}, s.handleCorpusStatsResource)

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriRetrieval,
			Name:        "retrieval-settings",
			Description: "Similarity threshold and result limits used when answering",
			MIMEType:    "application/json",
		}, s.handleRetrievalResource)
	}
}

// handleCorpusStatsResource returns the corpus statistics.
func (s *Server) handleCorpusStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Query.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading corpus stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

// handleRetrievalResource returns the retrieval settings.
func (s *Server) handleRetrievalResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	type retrievalInfo struct {
		SimilarityThreshold float64 `json:"similarity_threshold"`
		MaxResults          int     `json:"max_results"`
		MaxContextChunks    int     `json:"max_context_chunks"`
		WindowBefore        int     `json:"window_before"`
		WindowAfter         int     `json:"window_after"`
	}

	r := settings.Retrieval
	return jsonResource(req.Params.URI, retrievalInfo{
		SimilarityThreshold: r.SimilarityThreshold,
		MaxResults:          r.MaxResults,
		MaxContextChunks:    r.MaxContextChunks,
		WindowBefore:        r.WindowBefore,
		WindowAfter:         r.WindowAfter,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
