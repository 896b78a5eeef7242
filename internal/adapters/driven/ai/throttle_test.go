package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
)

type countingEmbedding struct {
	driven.EmbeddingService
	calls int
}

func (c *countingEmbedding) Embed(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	return []float32{1}, nil
}

type countingLLM struct {
	driven.LLMService
	calls int
}

func (c *countingLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	c.calls++
	return "ok", nil
}

func (c *countingLLM) DescribeImage(_ context.Context, _ driven.ImageInput, _ string) (string, error) {
	c.calls++
	return "img", nil
}

func TestWithEmbeddingRateLimit_Disabled(t *testing.T) {
	inner := &countingEmbedding{}
	assert.Same(t, driven.EmbeddingService(inner), WithEmbeddingRateLimit(inner, 0))
	assert.Same(t, driven.EmbeddingService(inner), WithEmbeddingRateLimit(inner, -1))
	assert.Nil(t, WithEmbeddingRateLimit(nil, 5))
}

func TestWithEmbeddingRateLimit_Delegates(t *testing.T) {
	inner := &countingEmbedding{}
	svc := WithEmbeddingRateLimit(inner, 100)

	vec, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, 1, inner.calls)
}

func TestWithEmbeddingRateLimit_CancelledContext(t *testing.T) {
	inner := &countingEmbedding{}
	svc := WithEmbeddingRateLimit(inner, 0.001)

	// The first call consumes the only token.
	_, err := svc.Embed(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Embed(ctx, "b")
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestWithLLMRateLimit(t *testing.T) {
	inner := &countingLLM{}
	assert.Same(t, driven.LLMService(inner), WithLLMRateLimit(inner, 0))

	svc := WithLLMRateLimit(inner, 100)
	out, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	out, err = svc.DescribeImage(context.Background(), driven.ImageInput{}, "p")
	require.NoError(t, err)
	assert.Equal(t, "img", out)
	assert.Equal(t, 2, inner.calls)
}
