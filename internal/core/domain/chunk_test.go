package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceKind_IsValid(t *testing.T) {
	assert.True(t, SourceForumPost.IsValid())
	assert.True(t, SourceDocumentPage.IsValid())
	assert.False(t, SourceKind("").IsValid())
	assert.False(t, SourceKind("email").IsValid())
}

func TestAllSourceKinds(t *testing.T) {
	kinds := AllSourceKinds()
	assert.Equal(t, []SourceKind{SourceForumPost, SourceDocumentPage}, kinds)
	for _, k := range kinds {
		assert.True(t, k.IsValid())
	}
}

func TestChunk_Key(t *testing.T) {
	c := Chunk{Kind: SourceForumPost, SourceID: "42", ParentID: "7", Sequence: 3}
	assert.Equal(t, ChunkKey{Kind: SourceForumPost, SourceID: "42", Sequence: 3}, c.Key())
}

func TestChunk_HasEmbedding(t *testing.T) {
	assert.False(t, Chunk{}.HasEmbedding())
	assert.False(t, Chunk{Embedding: []float32{}}.HasEmbedding())
	assert.True(t, Chunk{Embedding: []float32{0.1}}.HasEmbedding())
}

func TestChunkKey_Less(t *testing.T) {
	keys := []ChunkKey{
		{Kind: SourceForumPost, SourceID: "2", Sequence: 0},
		{Kind: SourceDocumentPage, SourceID: "b", Sequence: 1},
		{Kind: SourceForumPost, SourceID: "1", Sequence: 5},
		{Kind: SourceDocumentPage, SourceID: "b", Sequence: 0},
		{Kind: SourceForumPost, SourceID: "1", Sequence: 2},
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	expected := []ChunkKey{
		{Kind: SourceDocumentPage, SourceID: "b", Sequence: 0},
		{Kind: SourceDocumentPage, SourceID: "b", Sequence: 1},
		{Kind: SourceForumPost, SourceID: "1", Sequence: 2},
		{Kind: SourceForumPost, SourceID: "1", Sequence: 5},
		{Kind: SourceForumPost, SourceID: "2", Sequence: 0},
	}
	assert.Equal(t, expected, keys)
}

func TestChunkKey_LessIsStrict(t *testing.T) {
	k := ChunkKey{Kind: SourceForumPost, SourceID: "1", Sequence: 1}
	assert.False(t, k.Less(k))
}

func TestTextHash(t *testing.T) {
	a := TextHash("Assignment 3 deadline is March 10")
	b := TextHash("Assignment 3 deadline is March 10")
	c := TextHash("Assignment 3 deadline is March 11")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestNoInformation(t *testing.T) {
	answer := NoInformation()
	assert.Equal(t, NoInformationAnswer, answer.Text)
	assert.NotNil(t, answer.Links)
	assert.Empty(t, answer.Links)
}

func TestQuery_HasImage(t *testing.T) {
	assert.False(t, Query{Question: "q"}.HasImage())
	assert.True(t, Query{Question: "q", Image: "aGVsbG8="}.HasImage())
}

func TestCorpusStats(t *testing.T) {
	stats := CorpusStats{Sources: []SourceStats{
		{Kind: SourceForumPost, Chunks: 10, Embedded: 9},
		{Kind: SourceDocumentPage, Chunks: 5, Embedded: 5},
	}}

	assert.Equal(t, 15, stats.TotalChunks())
	assert.False(t, stats.For(SourceForumPost).Complete())
	assert.True(t, stats.For(SourceDocumentPage).Complete())
	assert.Equal(t, SourceStats{Kind: "other"}, stats.For("other"))
}
