package bruteforce

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultBatchSize is the number of chunks handed to a worker at a time.
const DefaultBatchSize = 512

// Config tunes the scan.
type Config struct {
	// Workers bounds the scoring goroutines. Zero means GOMAXPROCS.
	Workers int

	// BatchSize is the number of chunks per unit of work. Zero means DefaultBatchSize.
	BatchSize int
}

// Index scores a query against every chunk in a store.
type Index struct {
	store     driven.ChunkStore
	workers   int
	batchSize int
}

// New creates a brute-force index over store.
func New(store driven.ChunkStore, cfg Config) *Index {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Index{
		store:     store,
		workers:   workers,
		batchSize: batchSize,
	}
}

// Search returns the chunks most similar to query, best first.
// Chunks without an embedding, with a zero-norm embedding, or with a
// dimension other than the query's are skipped. A zero-norm query matches
// nothing. Scores below zero are never returned.
func (idx *Index) Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.Hit, error) {
	log := logger.From(ctx)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	minScore := max(opts.MinScore, 0)

	queryNorm := squaredNorm(query)
	if queryNorm == 0 {
		log.Warn("Query vector has zero norm, skipping similarity scan")
		return []domain.Hit{}, nil
	}

	var scanned, skipped atomic.Int64
	batches := make(chan []domain.Chunk, idx.workers)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(batches)
		batch := make([]domain.Chunk, 0, idx.batchSize)
		for chunk, err := range idx.store.AllChunks(gctx) {
			if err != nil {
				return fmt.Errorf("scanning chunks: %w", err)
			}
			if !chunk.HasEmbedding() {
				skipped.Add(1)
				continue
			}
			batch = append(batch, chunk)
			if len(batch) < idx.batchSize {
				continue
			}
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
			batch = make([]domain.Chunk, 0, idx.batchSize)
		}
		if len(batch) > 0 {
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	partials := make([][]domain.Hit, idx.workers)
	for w := range idx.workers {
		g.Go(func() error {
			var local []domain.Hit
			for batch := range batches {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, chunk := range batch {
					scanned.Add(1)
					if len(chunk.Embedding) != len(query) {
						skipped.Add(1)
						continue
					}
					var dot, norm float64
					for i, x := range chunk.Embedding {
						f := float64(x)
						dot += f * float64(query[i])
						norm += f * f
					}
					if norm == 0 {
						skipped.Add(1)
						continue
					}
					score := cosineFromParts(dot, norm, queryNorm)
					if score >= minScore {
						local = append(local, domain.Hit{Chunk: chunk, Score: score})
					}
				}
				// Bound memory on dense matches.
				if len(local) > 4*maxResults {
					local = topK(local, maxResults)
				}
			}
			partials[w] = topK(local, maxResults)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.Hit
	for _, p := range partials {
		merged = append(merged, p...)
	}
	hits := topK(merged, maxResults)
	if hits == nil {
		hits = []domain.Hit{}
	}

	log.Debug("Scanned %d chunks, skipped %d, %d hits >= %.2f",
		scanned.Load(), skipped.Load(), len(hits), minScore)
	return hits, nil
}

// topK sorts hits best first and truncates to k.
func topK(hits []domain.Hit, k int) []domain.Hit {
	SortHits(hits)
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// SortHits orders hits by descending score, ties broken by chunk key.
func SortHits(hits []domain.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Chunk.Key().Less(hits[j].Chunk.Key())
	})
}
