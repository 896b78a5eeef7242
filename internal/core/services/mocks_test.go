package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
)

// mockEmbedding returns canned vectors keyed by input text.
type mockEmbedding struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	block    bool
	inputs   []string
}

func (m *mockEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if vec, ok := m.vectors[text]; ok {
		return vec, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func (m *mockEmbedding) Dimensions() int            { return 2 }
func (m *mockEmbedding) ModelName() string          { return "mock-embed" }
func (m *mockEmbedding) Ping(context.Context) error { return nil }
func (m *mockEmbedding) Close() error               { return nil }

func (m *mockEmbedding) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// mockLLM records chat and vision calls.
type mockLLM struct {
	mu            sync.Mutex
	chatReply     string
	chatErr       error
	describeReply string
	describeErr   error

	chatCalls     int
	describeCalls int
	lastMessages  []driven.ChatMessage
	lastImage     driven.ImageInput
	lastPrompt    string
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	m.lastMessages = messages
	return m.chatReply, m.chatErr
}

func (m *mockLLM) DescribeImage(_ context.Context, image driven.ImageInput, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.describeCalls++
	m.lastImage = image
	m.lastPrompt = prompt
	return m.describeReply, m.describeErr
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// mockPrompts serves fixed templates.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("prompt %q not found", name)
}

func (m *mockPrompts) Reload() {}
