package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// Ensure QueryService implements the interface.
var (
	_ driving.QueryService    = (*QueryService)(nil)
	_ driven.PromptStoreAware = (*QueryService)(nil)
)

// QueryConfig carries the settings the pipeline is built with.
type QueryConfig struct {
	Retrieval        domain.RetrievalSettings
	EmbeddingTimeout time.Duration
	APIKeySet        bool
}

// QueryService answers questions: normalize, embed, search, enrich, synthesize.
type QueryService struct {
	store       driven.ChunkStore
	index       driven.VectorIndex
	normalizer  *QueryNormalizer
	gateway     *EmbeddingGateway
	enricher    *ContextEnricher
	synthesizer *AnswerSynthesizer
	search      domain.SearchOptions
	apiKeySet   bool
}

// NewQueryService creates the query pipeline.
func NewQueryService(
	store driven.ChunkStore,
	index driven.VectorIndex,
	embedding driven.EmbeddingService,
	llm driven.LLMService,
	cfg QueryConfig,
) *QueryService {
	return &QueryService{
		store:      store,
		index:      index,
		normalizer: NewQueryNormalizer(llm),
		gateway:    NewEmbeddingGateway(embedding, cfg.EmbeddingTimeout),
		enricher: NewContextEnricher(store, EnricherConfig{
			WindowBefore: cfg.Retrieval.WindowBefore,
			WindowAfter:  cfg.Retrieval.WindowAfter,
			MaxPassages:  cfg.Retrieval.MaxContextChunks,
		}),
		synthesizer: NewAnswerSynthesizer(llm),
		search: domain.SearchOptions{
			MaxResults: cfg.Retrieval.MaxResults,
			MinScore:   cfg.Retrieval.SimilarityThreshold,
		},
		apiKeySet: cfg.APIKeySet,
	}
}

// SetPromptStore passes store to the stages that render prompts.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.normalizer.SetPromptStore(store)
	s.synthesizer.SetPromptStore(store)
}

// Ask runs the pipeline for query.
func (s *QueryService) Ask(ctx context.Context, query domain.Query) (domain.Answer, error) {
	if logger.RequestID(ctx) == "" {
		ctx = logger.WithRequestID(ctx, uuid.NewString())
	}
	log := logger.From(ctx)
	start := time.Now()

	text, err := s.normalizer.Normalize(ctx, query)
	if err != nil {
		return domain.Answer{}, err
	}
	log.Info("Query %q (image=%t)", truncate(text, 80), query.HasImage())

	vec, err := s.gateway.Embed(ctx, text)
	if err != nil {
		return domain.Answer{}, err
	}

	hits, err := s.index.Search(ctx, vec, s.search)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			return domain.Answer{}, err
		}
		return domain.Answer{}, fmt.Errorf("%w: search: %w", domain.ErrStoreUnavailable, err)
	}
	if len(hits) == 0 {
		log.Info("No chunk scored above %.2f", s.search.MinScore)
		return domain.NoInformation(), nil
	}
	log.Debug("Top hit %s/%s#%d score=%.3f", hits[0].Chunk.Kind, hits[0].Chunk.ParentID,
		hits[0].Chunk.Sequence, hits[0].Score)

	passages, err := s.enricher.Enrich(ctx, hits)
	if err != nil {
		return domain.Answer{}, err
	}

	answer, err := s.synthesizer.Synthesize(ctx, text, passages)
	if err != nil {
		return domain.Answer{}, err
	}

	log.Info("Answered with %d links in %s", len(answer.Links), time.Since(start).Round(time.Millisecond))
	return answer, nil
}

// Health counts chunks and embeddings per source.
func (s *QueryService) Health(ctx context.Context) (domain.CorpusStats, error) {
	stats := domain.CorpusStats{APIKeySet: s.apiKeySet}

	for _, kind := range domain.AllSourceKinds() {
		chunks, err := s.store.CountChunks(ctx, kind)
		if err != nil {
			return domain.CorpusStats{}, storeError(err, "count %s chunks", kind)
		}
		embedded, err := s.store.CountEmbedded(ctx, kind)
		if err != nil {
			return domain.CorpusStats{}, storeError(err, "count %s embeddings", kind)
		}
		stats.Sources = append(stats.Sources, domain.SourceStats{Kind: kind, Chunks: chunks, Embedded: embedded})
	}

	return stats, nil
}

// storeError tags err with ErrStoreUnavailable unless it already is.
func storeError(err error, format string, args ...any) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, fmt.Sprintf(format, args...), err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
