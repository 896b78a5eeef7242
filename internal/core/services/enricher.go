package services

import (
	"context"
	"sort"
	"strings"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// EnricherConfig sizes the adjacency window.
type EnricherConfig struct {
	// WindowBefore and WindowAfter are the neighbours included on each side of a hit.
	WindowBefore int
	WindowAfter  int

	// MaxPassages caps the passages returned. Zero means domain.DefaultMaxContextChunks.
	MaxPassages int
}

// ContextEnricher widens hits with their neighbouring chunks.
type ContextEnricher struct {
	store  driven.ChunkStore
	config EnricherConfig
}

// NewContextEnricher creates an enricher reading neighbours from store.
func NewContextEnricher(store driven.ChunkStore, cfg EnricherConfig) *ContextEnricher {
	cfg.WindowBefore = max(cfg.WindowBefore, 0)
	cfg.WindowAfter = max(cfg.WindowAfter, 0)
	if cfg.MaxPassages <= 0 {
		cfg.MaxPassages = domain.DefaultMaxContextChunks
	}
	return &ContextEnricher{store: store, config: cfg}
}

type parentKey struct {
	kind     domain.SourceKind
	parentID string
}

// Enrich returns one passage per hit, in hit order, up to MaxPassages.
// A hit whose chunk was already sent as part of an earlier window is
// skipped, and sequences already sent are left out of later windows.
// Missing neighbours at a parent's boundary shrink the window.
func (e *ContextEnricher) Enrich(ctx context.Context, hits []domain.Hit) ([]domain.EnrichedPassage, error) {
	log := logger.From(ctx)
	passages := make([]domain.EnrichedPassage, 0, min(len(hits), e.config.MaxPassages))
	parents := make(map[parentKey][]domain.Chunk)
	sent := make(map[parentKey]map[int]bool)

	for _, hit := range hits {
		if len(passages) >= e.config.MaxPassages {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		anchor := hit.Chunk
		key := parentKey{kind: anchor.Kind, parentID: anchor.ParentID}
		if sent[key][anchor.Sequence] {
			log.Debug("Skipping %s/%s#%d, already in context", anchor.Kind, anchor.ParentID, anchor.Sequence)
			continue
		}

		siblings, ok := parents[key]
		if !ok {
			var err error
			siblings, err = e.store.ParentChunks(ctx, anchor.Kind, anchor.ParentID)
			if err != nil {
				return nil, storeError(err, "load %s %q", anchor.Kind, anchor.ParentID)
			}
			parents[key] = siblings
		}

		window := e.window(anchor, siblings, sent[key])
		if sent[key] == nil {
			sent[key] = make(map[int]bool)
		}

		texts := make([]string, 0, len(window))
		sequences := make([]int, 0, len(window))
		for _, c := range window {
			sent[key][c.Sequence] = true
			texts = append(texts, c.Text)
			sequences = append(sequences, c.Sequence)
		}

		passages = append(passages, domain.EnrichedPassage{
			Kind:      anchor.Kind,
			ParentID:  anchor.ParentID,
			Sequences: sequences,
			Text:      strings.Join(texts, " "),
			URL:       anchor.URL,
			Score:     hit.Score,
			Title:     anchor.Metadata.Title,
		})
	}

	log.Debug("Enriched %d hits into %d passages", len(hits), len(passages))
	return passages, nil
}

// window returns the chunks around anchor in ascending sequence order,
// excluding sequences already sent. The anchor is always included.
func (e *ContextEnricher) window(anchor domain.Chunk, siblings []domain.Chunk, sent map[int]bool) []domain.Chunk {
	lo := anchor.Sequence - e.config.WindowBefore
	hi := anchor.Sequence + e.config.WindowAfter

	var window []domain.Chunk
	haveAnchor := false
	for _, c := range siblings {
		if c.Sequence < lo || c.Sequence > hi || sent[c.Sequence] {
			continue
		}
		if c.Sequence == anchor.Sequence {
			haveAnchor = true
		}
		window = append(window, c)
	}
	if !haveAnchor {
		window = append(window, anchor)
	}

	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Sequence < window[j].Sequence
	})
	return window
}
