package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// EmbeddingGateway turns query text into a vector.
// Provider failures, timeouts and degenerate vectors all surface as
// domain.ErrEmbeddingUnavailable.
type EmbeddingGateway struct {
	service driven.EmbeddingService
	timeout time.Duration
}

// NewEmbeddingGateway wraps service. A non-positive timeout disables the per-call deadline.
func NewEmbeddingGateway(service driven.EmbeddingService, timeout time.Duration) *EmbeddingGateway {
	return &EmbeddingGateway{service: service, timeout: timeout}
}

// Embed returns the embedding of text.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrEmbeddingUnavailable)
	}
	if g.service == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	vec, err := g.service.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: provider returned an empty vector", domain.ErrEmbeddingUnavailable)
	}
	if allZero(vec) {
		return nil, fmt.Errorf("%w: provider returned a zero vector", domain.ErrEmbeddingUnavailable)
	}

	logger.From(ctx).Debug("Embedded %d chars with %s in %s (dim=%d)",
		len(text), g.service.ModelName(), time.Since(start).Round(time.Millisecond), len(vec))
	return vec, nil
}

func allZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}
