package driven

import (
	"context"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// VectorIndex ranks stored chunks against a query vector.
// The default implementation is a brute-force scan; an approximate index
// can replace it behind the same contract.
type VectorIndex interface {
	// Search returns hits ordered by descending score, ties broken by chunk key.
	// No returned hit scores below opts.MinScore.
	Search(ctx context.Context, query []float32, opts domain.SearchOptions) ([]domain.Hit, error)
}
