package cli

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

func sampleAnswer() domain.Answer {
	return domain.Answer{
		Text: "Use gpt-3.5-turbo-0125 through the AI proxy.",
		Links: []domain.CitationLink{
			{URL: "https://discourse.onlinedegree.iitm.ac.in/t/ga5-question-8/155939/4", Text: "Use the model mentioned in the question."},
		},
	}
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	query := &mockQueryService{answer: sampleAnswer()}

	out, err := runCLI(t, query, newMockSettings(), nil, "ask", "Which", "model", "for", "GA5?")
	require.NoError(t, err)

	assert.Equal(t, "Which model for GA5?", query.lastQuery.Question)
	assert.Empty(t, query.lastQuery.Image)
	assert.Contains(t, out, "gpt-3.5-turbo-0125")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "1. Use the model mentioned in the question.")
	assert.Contains(t, out, "155939/4")
}

func TestAskCmd_JSON(t *testing.T) {
	query := &mockQueryService{answer: domain.Answer{Text: "none"}}

	out, err := runCLI(t, query, newMockSettings(), nil, "ask", "--json", "q")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "none", got["answer"])
	assert.Equal(t, []any{}, got["links"])
}

func TestAskCmd_Image(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	data := []byte("\x89PNG\r\n\x1a\nrest")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	query := &mockQueryService{answer: sampleAnswer()}
	_, err := runCLI(t, query, newMockSettings(), nil, "ask", "--image", path)
	require.NoError(t, err)

	assert.Empty(t, query.lastQuery.Question)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), query.lastQuery.Image)
}

func TestAskCmd_Errors(t *testing.T) {
	t.Run("no question or image", func(t *testing.T) {
		_, err := runCLI(t, &mockQueryService{}, newMockSettings(), nil, "ask")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question or --image is required")
	})

	t.Run("missing image file", func(t *testing.T) {
		_, err := runCLI(t, &mockQueryService{}, newMockSettings(), nil,
			"ask", "--image", filepath.Join(t.TempDir(), "nope.png"), "q")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading image")
	})

	t.Run("service error keeps sentinel", func(t *testing.T) {
		query := &mockQueryService{askErr: domain.ErrGenerationUnavailable}
		_, err := runCLI(t, query, newMockSettings(), nil, "ask", "q")
		assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	})
}
