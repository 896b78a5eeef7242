package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ollama.Close()

	tests := []struct {
		name    string
		config  *domain.EmbeddingSettings
		wantErr error
	}{
		{name: "nil", config: nil},
		{name: "no provider", config: &domain.EmbeddingSettings{Model: "text-embedding-3-small"}},
		{
			name:   "reachable ollama",
			config: &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: ollama.URL},
		},
		{
			name:    "generation-only provider",
			config:  &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "sk-ant"},
			wantErr: domain.ErrInvalidInput,
		},
	}

	validator := NewConfigValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateEmbedding(tt.config)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfigValidator_ValidateLLM(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer rejecting.Close()

	tests := []struct {
		name    string
		config  *domain.LLMSettings
		wantErr error
	}{
		{name: "nil", config: nil},
		{name: "no provider", config: &domain.LLMSettings{Model: "gpt-4o-mini"}},
		{
			name:    "unknown provider",
			config:  &domain.LLMSettings{Provider: "mistral", APIKey: "key"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "rejected key",
			config:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "bad", BaseURL: rejecting.URL},
			wantErr: domain.ErrGenerationUnavailable,
		},
	}

	validator := NewConfigValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateLLM(tt.config)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
