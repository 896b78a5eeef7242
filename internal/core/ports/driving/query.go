package driving

import (
	"context"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// QueryService answers questions over the indexed corpus.
type QueryService interface {
	// Ask runs the retrieval pipeline and returns a grounded answer.
	// A query that matches nothing returns the fixed no-information answer.
	Ask(ctx context.Context, query domain.Query) (domain.Answer, error)

	// Health reports per-source chunk and embedding counts.
	Health(ctx context.Context) (domain.CorpusStats, error)
}
