package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SourceKind identifies which corpus a chunk was ingested from.
type SourceKind string

// Available source kinds.
const (
	// SourceForumPost is a chunk of a Discourse forum post.
	SourceForumPost SourceKind = "forum_post"

	// SourceDocumentPage is a chunk of a course documentation page.
	SourceDocumentPage SourceKind = "document_page"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceForumPost, SourceDocumentPage:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// AllSourceKinds returns every source kind in a stable order.
func AllSourceKinds() []SourceKind {
	return []SourceKind{SourceForumPost, SourceDocumentPage}
}

// Chunk is a unit of retrievable text. Forum and document rows are both
// mapped onto this shape so ranking never branches on the source.
type Chunk struct {
	// Kind is the corpus the chunk belongs to.
	Kind SourceKind

	// SourceID identifies the originating post or document.
	SourceID string

	// ParentID groups chunks for adjacency: the topic id for forum posts,
	// the document title for documentation pages.
	ParentID string

	// Sequence is the position of the chunk within its parent.
	// Strictly increasing and unique within (Kind, ParentID).
	Sequence int

	// Text is the chunk content.
	Text string

	// URL is the canonical link used for citations.
	URL string

	// Metadata is descriptive only and never used for ranking.
	Metadata ChunkMetadata

	// Embedding is the stored vector, nil when the chunk has not been
	// embedded or the stored vector was computed for different text.
	Embedding []float32
}

// ChunkMetadata holds descriptive fields carried alongside a chunk.
type ChunkMetadata struct {
	// Title is the topic title or document title.
	Title string

	// Author is the forum username. Empty for documents.
	Author string

	// CreatedAt is the post creation time or document download time.
	CreatedAt time.Time

	// Likes is the forum engagement score. Zero for documents.
	Likes int

	// PostNumber is the position of the post within its topic. Zero for documents.
	PostNumber int

	// ChunkIndex is the position of the chunk within its post or document
	// as persisted. Sequence is derived from it on read.
	ChunkIndex int
}

// Key returns the identity of the chunk.
func (c Chunk) Key() ChunkKey {
	return ChunkKey{Kind: c.Kind, SourceID: c.SourceID, Sequence: c.Sequence}
}

// HasEmbedding reports whether the chunk carries a vector.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// ChunkKey uniquely identifies a chunk.
type ChunkKey struct {
	Kind     SourceKind
	SourceID string
	Sequence int
}

// Less orders keys by kind, then source id, then sequence.
func (k ChunkKey) Less(other ChunkKey) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	if k.SourceID != other.SourceID {
		return k.SourceID < other.SourceID
	}
	return k.Sequence < other.Sequence
}

// TextHash returns the fingerprint stored next to an embedding. An embedding
// is only valid while the hash of the current text matches the stored one.
func TextHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
