package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
)

// Ensure throttled services implement the interfaces.
var (
	_ driven.EmbeddingService = (*throttledEmbedding)(nil)
	_ driven.LLMService       = (*throttledLLM)(nil)
)

// newLimiter returns nil when rps disables throttling.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// WithEmbeddingRateLimit limits Embed calls to rps per second.
// A non-positive rps returns svc unchanged.
func WithEmbeddingRateLimit(svc driven.EmbeddingService, rps float64) driven.EmbeddingService {
	limiter := newLimiter(rps)
	if limiter == nil || svc == nil {
		return svc
	}
	return &throttledEmbedding{EmbeddingService: svc, limiter: limiter}
}

// WithLLMRateLimit limits Chat and DescribeImage calls to rps per second.
// A non-positive rps returns svc unchanged.
func WithLLMRateLimit(svc driven.LLMService, rps float64) driven.LLMService {
	limiter := newLimiter(rps)
	if limiter == nil || svc == nil {
		return svc
	}
	return &throttledLLM{LLMService: svc, limiter: limiter}
}

type throttledEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

func (t *throttledEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.EmbeddingService.Embed(ctx, text)
}

type throttledLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

func (t *throttledLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.LLMService.Chat(ctx, messages, opts)
}

func (t *throttledLLM) DescribeImage(ctx context.Context, image driven.ImageInput, prompt string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return t.LLMService.DescribeImage(ctx, image, prompt)
}
