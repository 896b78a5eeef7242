package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyThreshold        = "retrieval.similarity_threshold"
	keyMaxResults       = "retrieval.max_results"
	keyMaxContextChunks = "retrieval.max_context_chunks"
	keyWindowBefore     = "retrieval.window_before"
	keyWindowAfter      = "retrieval.window_after"
	keyWorkers          = "retrieval.workers"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedTimeout     = "embedding.timeout"
	keyEmbedRPS         = "embedding.requests_per_second"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMVisionModel   = "llm.vision_model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMTimeout       = "llm.timeout"
	keyLLMRPS           = "llm.requests_per_second"
	keyDatabasePath     = "database.path"
	keyServerAddr       = "server.addr"
)

// Environment variables that take precedence over the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvSimilarityThreshold = "SIMILARITY_THRESHOLD"
	EnvMaxResults          = "MAX_RESULTS"
	EnvMaxContextChunks    = "MAX_CONTEXT_CHUNKS"
	EnvAPIKey              = "API_KEY"
	EnvDatabasePath        = "DB_PATH"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading overrides from the process environment.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. A nil lookup disables overrides.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	s.lookupEnv = lookup
	return s
}

// Get retrieves current application settings with environment overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings, err := s.Stored()
	if err != nil {
		return nil, err
	}
	if err := s.applyEnv(settings); err != nil {
		return nil, err
	}
	if err := settings.Retrieval.Validate(); err != nil {
		return nil, fmt.Errorf("retrieval settings: %w", err)
	}
	return settings, nil
}

// Stored reads settings from the config store only, without environment overrides.
func (s *SettingsService) Stored() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedTimeout, err := s.getDuration(keyEmbedTimeout, defaults.Embedding.Timeout)
	if err != nil {
		return nil, err
	}
	llmTimeout, err := s.getDuration(keyLLMTimeout, defaults.LLM.Timeout)
	if err != nil {
		return nil, err
	}

	return &domain.AppSettings{
		Retrieval: domain.RetrievalSettings{
			SimilarityThreshold: s.getFloat(keyThreshold, defaults.Retrieval.SimilarityThreshold),
			MaxResults:          s.getInt(keyMaxResults, defaults.Retrieval.MaxResults),
			MaxContextChunks:    s.getInt(keyMaxContextChunks, defaults.Retrieval.MaxContextChunks),
			WindowBefore:        s.getInt(keyWindowBefore, defaults.Retrieval.WindowBefore),
			WindowAfter:         s.getInt(keyWindowAfter, defaults.Retrieval.WindowAfter),
			Workers:             s.getInt(keyWorkers, defaults.Retrieval.Workers),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // Empty selects the provider default
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Timeout:           embedTimeout,
			RequestsPerSecond: s.getFloat(keyEmbedRPS, 0),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:             s.getString(keyLLMModel, defaults.LLM.Model),
			VisionModel:       s.configStore.GetString(keyLLMVisionModel),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			Timeout:           llmTimeout,
			RequestsPerSecond: s.getFloat(keyLLMRPS, 0),
		},
		Database: domain.DatabaseSettings{
			Path: s.getString(keyDatabasePath, defaults.Database.Path),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}, nil
}

// applyEnv overlays environment variables on settings.
// API_KEY fills provider keys that are not set in the config file.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) error {
	if v, ok := s.env(EnvSimilarityThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvSimilarityThreshold, v)
		}
		settings.Retrieval.SimilarityThreshold = f
	}
	if v, ok := s.env(EnvMaxResults); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvMaxResults, v)
		}
		settings.Retrieval.MaxResults = n
	}
	if v, ok := s.env(EnvMaxContextChunks); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, EnvMaxContextChunks, v)
		}
		settings.Retrieval.MaxContextChunks = n
	}
	if v, ok := s.env(EnvAPIKey); ok {
		if settings.Embedding.APIKey == "" {
			settings.Embedding.APIKey = v
		}
		if settings.LLM.APIKey == "" {
			settings.LLM.APIKey = v
		}
	}
	if v, ok := s.env(EnvDatabasePath); ok {
		settings.Database.Path = v
	}
	return nil
}

// env returns a non-empty environment value.
func (s *SettingsService) env(key string) (string, bool) {
	v, ok := s.lookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Save persists application settings.
// Empty API keys are not written so a stored key is never erased by accident.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if err := settings.Retrieval.Validate(); err != nil {
		return fmt.Errorf("retrieval settings: %w", err)
	}

	type entry struct {
		key   string
		value any
	}
	values := []entry{
		{keyThreshold, settings.Retrieval.SimilarityThreshold},
		{keyMaxResults, settings.Retrieval.MaxResults},
		{keyMaxContextChunks, settings.Retrieval.MaxContextChunks},
		{keyWindowBefore, settings.Retrieval.WindowBefore},
		{keyWindowAfter, settings.Retrieval.WindowAfter},
		{keyWorkers, settings.Retrieval.Workers},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedTimeout, settings.Embedding.Timeout.String()},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMVisionModel, settings.LLM.VisionModel},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, settings.LLM.Timeout.String()},
		{keyLLMRPS, settings.LLM.RequestsPerSecond},
		{keyDatabasePath, settings.Database.Path},
		{keyServerAddr, settings.Server.Addr},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, entry{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, entry{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetRetrieval updates the retrieval thresholds.
func (s *SettingsService) SetRetrieval(retrieval domain.RetrievalSettings) error {
	if err := retrieval.Validate(); err != nil {
		return fmt.Errorf("retrieval settings: %w", err)
	}

	settings, err := s.Stored()
	if err != nil {
		return err
	}
	settings.Retrieval = retrieval
	return s.Save(settings)
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	}
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: provider %s does not support embeddings", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Stored()
	if err != nil {
		return err
	}

	if settings.Embedding.Provider != provider {
		// A custom endpoint belongs to the previous provider.
		settings.Embedding.BaseURL = ""
	}
	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	settings.Embedding.APIKey = apiKey
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Stored()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != provider {
		settings.LLM.BaseURL = ""
		settings.LLM.VisionModel = ""
	}
	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	settings.LLM.APIKey = apiKey
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt keeps an explicit zero, which is meaningful for window sizes.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s=%q is not a positive duration", domain.ErrInvalidInput, key, val)
	}
	return d, nil
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
