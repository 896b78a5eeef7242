package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestHandleCorpusStatsResource(t *testing.T) {
	t.Run("returns stats as json", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{stats: domain.CorpusStats{
			Sources: []domain.SourceStats{
				{Kind: domain.SourceDocumentPage, Chunks: 4, Embedded: 4},
			},
		}})

		result, err := server.handleCorpusStatsResource(context.Background(), readRequest(uriCorpusStats))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, uriCorpusStats, result.Contents[0].URI)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got domain.CorpusStats
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, 4, got.For(domain.SourceDocumentPage).Chunks)
	})

	t.Run("health error is wrapped", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{healthErr: errors.New("boom")})

		_, err := server.handleCorpusStatsResource(context.Background(), readRequest(uriCorpusStats))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading corpus stats")
	})
}

func TestHandleRetrievalResource(t *testing.T) {
	t.Run("without settings port is not found", func(t *testing.T) {
		server := newTestServer(t, &mockQueryService{})

		_, err := server.handleRetrievalResource(context.Background(), readRequest(uriRetrieval))
		assert.Error(t, err)
	})

	t.Run("returns retrieval settings", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		server, err := NewServer(&Ports{
			Query:    &mockQueryService{},
			Settings: &mockSettingsService{settings: &settings},
		})
		require.NoError(t, err)

		result, err := server.handleRetrievalResource(context.Background(), readRequest(uriRetrieval))
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.InDelta(t, settings.Retrieval.SimilarityThreshold, got["similarity_threshold"], 1e-9)
		assert.EqualValues(t, settings.Retrieval.MaxResults, got["max_results"])
	})

	t.Run("settings error is wrapped", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Query:    &mockQueryService{},
			Settings: &mockSettingsService{err: errors.New("corrupt")},
		})
		require.NoError(t, err)

		_, err = server.handleRetrievalResource(context.Background(), readRequest(uriRetrieval))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading settings")
	})
}
