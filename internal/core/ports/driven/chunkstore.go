package driven

import (
	"context"
	"iter"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// ChunkStore provides typed access to persisted chunks from every source.
// Readers are safe for concurrent use.
type ChunkStore interface {
	// AllChunks streams every chunk of every source kind. The sequence yields
	// a non-nil error at most once, after which iteration stops.
	AllChunks(ctx context.Context) iter.Seq2[domain.Chunk, error]

	// CountChunks returns the number of chunks held for a source kind.
	CountChunks(ctx context.Context, kind domain.SourceKind) (int, error)

	// CountEmbedded returns the number of chunks with a valid embedding.
	CountEmbedded(ctx context.Context, kind domain.SourceKind) (int, error)

	// ParentChunks returns every chunk sharing a parent, ordered by sequence.
	ParentChunks(ctx context.Context, kind domain.SourceKind, parentID string) ([]domain.Chunk, error)

	// SaveChunk inserts or replaces a chunk. A changed text clears any stored
	// embedding unless the chunk carries a new one.
	SaveChunk(ctx context.Context, chunk domain.Chunk) error

	// Close releases resources.
	Close() error
}
