package mcp

import (
	"context"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// mockQueryService is a test double for driving.QueryService.
type mockQueryService struct {
	answer    domain.Answer
	askErr    error
	stats     domain.CorpusStats
	healthErr error
	lastQuery domain.Query
}

func (m *mockQueryService) Ask(_ context.Context, query domain.Query) (domain.Answer, error) {
	m.lastQuery = query
	if m.askErr != nil {
		return domain.Answer{}, m.askErr
	}
	return m.answer, nil
}

func (m *mockQueryService) Health(_ context.Context) (domain.CorpusStats, error) {
	if m.healthErr != nil {
		return domain.CorpusStats{}, m.healthErr
	}
	return m.stats, nil
}

// mockSettingsService is a test double for driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsService) Stored() (*domain.AppSettings, error) { return m.Get() }

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) SetRetrieval(_ domain.RetrievalSettings) error { return nil }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return nil
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }
