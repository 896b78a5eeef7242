package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/storage/memory"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/vector/bruteforce"
	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

const deadlineURL = "https://discourse.example/t/ga3-deadline/155/4"

func deadlineCorpus(t *testing.T) *memory.ChunkStore {
	t.Helper()
	store, err := memory.NewChunkStore(
		domain.Chunk{
			Kind: domain.SourceForumPost, SourceID: "4001", ParentID: "155", Sequence: 0,
			Text: "When is the deadline for GA3?", URL: "https://discourse.example/t/ga3-deadline/155/1",
			Metadata: domain.ChunkMetadata{Title: "GA3 deadline"}, Embedding: []float32{0.6, 0.8},
		},
		domain.Chunk{
			Kind: domain.SourceForumPost, SourceID: "4004", ParentID: "155", Sequence: 1,
			Text: "The Assignment 3 deadline is March 10.", URL: deadlineURL,
			Metadata: domain.ChunkMetadata{Title: "GA3 deadline"}, Embedding: []float32{1, 0},
		},
		domain.Chunk{
			Kind: domain.SourceDocumentPage, SourceID: "docker", ParentID: "docker", Sequence: 0,
			Text: "Install Docker Desktop.", URL: "https://tds.example/docker",
			Metadata: domain.ChunkMetadata{Title: "docker"}, Embedding: []float32{0, 1},
		},
		domain.Chunk{
			Kind: domain.SourceDocumentPage, SourceID: "docker", ParentID: "docker", Sequence: 1,
			Text: "Not embedded yet.", URL: "https://tds.example/docker",
		},
	)
	require.NoError(t, err)
	return store
}

func newQueryService(store *memory.ChunkStore, embed *mockEmbedding, llm *mockLLM) *QueryService {
	retrieval := domain.DefaultAppSettings().Retrieval
	return NewQueryService(store, bruteforce.New(store, bruteforce.Config{Workers: 2}), embed, llm, QueryConfig{
		Retrieval: retrieval,
		APIKeySet: true,
	})
}

func TestQueryService_Ask_EndToEnd(t *testing.T) {
	store := deadlineCorpus(t)
	embed := &mockEmbedding{vectors: map[string][]float32{"When is the Assignment 3 deadline?": {1, 0.1}}}
	llm := &mockLLM{chatReply: "The Assignment 3 deadline is March 10.\n\nSources:\n" +
		"1. URL: [" + deadlineURL + "], Text: [The Assignment 3 deadline is March 10.]\n" +
		"2. URL: [https://made-up.example/x], Text: [hallucinated]"}
	svc := newQueryService(store, embed, llm)

	answer, err := svc.Ask(context.Background(), domain.Query{Question: "When is the Assignment 3 deadline?"})

	require.NoError(t, err)
	assert.Equal(t, "The Assignment 3 deadline is March 10.", answer.Text)
	assert.Equal(t, []domain.CitationLink{{URL: deadlineURL, Text: "The Assignment 3 deadline is March 10."}}, answer.Links)
	assert.Equal(t, 1, llm.chatCalls)

	// The best hit is widened with the preceding post in the same topic.
	prompt := llm.lastMessages[1].Content
	assert.Contains(t, prompt, "When is the deadline for GA3? The Assignment 3 deadline is March 10.")
	assert.NotContains(t, prompt, "Docker")
}

func TestQueryService_Ask_EmptyCorpus(t *testing.T) {
	store, err := memory.NewChunkStore()
	require.NoError(t, err)
	llm := &mockLLM{}
	svc := newQueryService(store, &mockEmbedding{fallback: []float32{1, 0}}, llm)

	answer, err := svc.Ask(context.Background(), domain.Query{Question: "anything"})

	require.NoError(t, err)
	assert.Equal(t, domain.NoInformation(), answer)
	assert.Zero(t, llm.chatCalls)
}

func TestQueryService_Ask_BelowThreshold(t *testing.T) {
	llm := &mockLLM{}
	// Orthogonal-ish to every embedded chunk except the docker page, which scores 0.6 < 0.68.
	svc := newQueryService(deadlineCorpus(t), &mockEmbedding{fallback: []float32{-0.8, 0.6}}, llm)

	answer, err := svc.Ask(context.Background(), domain.Query{Question: "unrelated"})

	require.NoError(t, err)
	assert.Equal(t, domain.NoInformationAnswer, answer.Text)
	assert.Zero(t, llm.chatCalls)
}

func TestQueryService_Ask_MalformedImageMakesNoCalls(t *testing.T) {
	embed := &mockEmbedding{fallback: []float32{1, 0}}
	llm := &mockLLM{}
	svc := newQueryService(deadlineCorpus(t), embed, llm)

	_, err := svc.Ask(context.Background(), domain.Query{Question: "what is this?", Image: "%%%not-base64%%%"})

	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	assert.True(t, domain.IsClientError(err))
	assert.Zero(t, embed.calls())
	assert.Zero(t, llm.describeCalls)
	assert.Zero(t, llm.chatCalls)
}

func TestQueryService_Ask_WithImage(t *testing.T) {
	embed := &mockEmbedding{fallback: []float32{1, 0}}
	llm := &mockLLM{describeReply: "A screenshot of the GA3 page", chatReply: "March 10."}
	svc := newQueryService(deadlineCorpus(t), embed, llm)

	answer, err := svc.Ask(context.Background(), domain.Query{Question: "When?", Image: pngBase64()})

	require.NoError(t, err)
	assert.Equal(t, "March 10.", answer.Text)
	require.Len(t, embed.inputs, 1)
	assert.Equal(t, "When?\n\nImage context: A screenshot of the GA3 page", embed.inputs[0])
}

func TestQueryService_Ask_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query domain.Query
		embed *mockEmbedding
		llm   *mockLLM
		want  error
	}{
		{
			name:  "empty question",
			query: domain.Query{Question: "  "},
			embed: &mockEmbedding{},
			llm:   &mockLLM{},
			want:  domain.ErrInvalidInput,
		},
		{
			name:  "embedding down",
			query: domain.Query{Question: "q"},
			embed: &mockEmbedding{err: errors.New("connection refused")},
			llm:   &mockLLM{},
			want:  domain.ErrEmbeddingUnavailable,
		},
		{
			name:  "generation down",
			query: domain.Query{Question: "q"},
			embed: &mockEmbedding{fallback: []float32{1, 0}},
			llm:   &mockLLM{chatErr: errors.New("timeout")},
			want:  domain.ErrGenerationUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newQueryService(deadlineCorpus(t), tt.embed, tt.llm)

			_, err := svc.Ask(context.Background(), tt.query)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQueryService_Ask_StoreFailure(t *testing.T) {
	store := brokenStore{ChunkStore: deadlineCorpus(t)}
	svc := NewQueryService(store, bruteforce.New(store, bruteforce.Config{}),
		&mockEmbedding{fallback: []float32{1, 0}}, &mockLLM{}, QueryConfig{Retrieval: domain.DefaultAppSettings().Retrieval})

	_, err := svc.Ask(context.Background(), domain.Query{Question: "q"})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.True(t, domain.IsUpstreamError(err))
}

func TestQueryService_Health(t *testing.T) {
	svc := newQueryService(deadlineCorpus(t), &mockEmbedding{}, &mockLLM{})

	stats, err := svc.Health(context.Background())

	require.NoError(t, err)
	assert.True(t, stats.APIKeySet)
	assert.Equal(t, domain.SourceStats{Kind: domain.SourceForumPost, Chunks: 2, Embedded: 2}, stats.For(domain.SourceForumPost))
	assert.Equal(t, domain.SourceStats{Kind: domain.SourceDocumentPage, Chunks: 2, Embedded: 1}, stats.For(domain.SourceDocumentPage))
	assert.Equal(t, 4, stats.TotalChunks())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
}
