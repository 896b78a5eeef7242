package memory

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
// Used for tests and small fixture corpora.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[domain.ChunkKey]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store seeded with chunks.
func NewChunkStore(chunks ...domain.Chunk) (*ChunkStore, error) {
	s := &ChunkStore{chunks: make(map[domain.ChunkKey]domain.Chunk)}
	for _, c := range chunks {
		if err := s.SaveChunk(context.Background(), c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AllChunks streams every chunk ordered by chunk key.
func (s *ChunkStore) AllChunks(ctx context.Context) iter.Seq2[domain.Chunk, error] {
	snapshot := s.sorted(func(domain.Chunk) bool { return true })
	return func(yield func(domain.Chunk, error) bool) {
		for _, c := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(domain.Chunk{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}

// CountChunks returns the number of chunks held for a source kind.
func (s *ChunkStore) CountChunks(_ context.Context, kind domain.SourceKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.chunks {
		if k.Kind == kind {
			n++
		}
	}
	return n, nil
}

// CountEmbedded returns the number of chunks with an embedding.
func (s *ChunkStore) CountEmbedded(_ context.Context, kind domain.SourceKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k, c := range s.chunks {
		if k.Kind == kind && c.HasEmbedding() {
			n++
		}
	}
	return n, nil
}

// ParentChunks returns the chunks of one parent ordered by sequence.
func (s *ChunkStore) ParentChunks(
	_ context.Context, kind domain.SourceKind, parentID string,
) ([]domain.Chunk, error) {
	chunks := s.sorted(func(c domain.Chunk) bool {
		return c.Kind == kind && c.ParentID == parentID
	})
	slices.SortStableFunc(chunks, func(a, b domain.Chunk) int {
		return a.Sequence - b.Sequence
	})
	return chunks, nil
}

// SaveChunk inserts or replaces a chunk.
func (s *ChunkStore) SaveChunk(_ context.Context, chunk domain.Chunk) error {
	if !chunk.Kind.IsValid() {
		return fmt.Errorf("%w: unknown source kind %q", domain.ErrInvalidInput, chunk.Kind)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: chunk text is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := chunk.Key()
	if existing, ok := s.chunks[key]; ok && !chunk.HasEmbedding() && existing.Text == chunk.Text {
		chunk.Embedding = existing.Embedding
	}
	chunk.Embedding = slices.Clone(chunk.Embedding)
	s.chunks[key] = chunk
	return nil
}

// Close is a no-op for the memory store.
func (s *ChunkStore) Close() error {
	return nil
}

func (s *ChunkStore) sorted(keep func(domain.Chunk) bool) []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		if keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Chunk) int {
		switch {
		case a.Key().Less(b.Key()):
			return -1
		case b.Key().Less(a.Key()):
			return 1
		default:
			return 0
		}
	})
	return out
}
