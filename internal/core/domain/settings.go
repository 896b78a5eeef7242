package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI or any OpenAI-compatible proxy.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if this provider can produce embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud or compatible proxy)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// RetrievalSettings tunes similarity search and context assembly.
type RetrievalSettings struct {
	// SimilarityThreshold is the minimum cosine score for a hit.
	SimilarityThreshold float64

	// MaxResults caps the hits returned by similarity search.
	MaxResults int

	// MaxContextChunks caps the enriched passages sent to the generation model.
	MaxContextChunks int

	// WindowBefore and WindowAfter size the adjacency window around each hit.
	WindowBefore int
	WindowAfter  int

	// Workers bounds the similarity scan worker pool. Zero means GOMAXPROCS.
	Workers int
}

// Validate checks the retrieval settings are usable.
func (r RetrievalSettings) Validate() error {
	switch {
	case r.SimilarityThreshold < 0 || r.SimilarityThreshold > 1:
		return ErrInvalidInput
	case r.MaxResults <= 0, r.MaxContextChunks <= 0:
		return ErrInvalidInput
	case r.WindowBefore < 0, r.WindowAfter < 0, r.Workers < 0:
		return ErrInvalidInput
	}
	return nil
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Timeout bounds each embedding call.
	Timeout time.Duration

	// RequestsPerSecond throttles calls client-side. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// VisionModel describes attached images. Empty reuses Model.
	VisionModel string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds each generation or vision call.
	Timeout time.Duration

	// RequestsPerSecond throttles calls client-side. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EffectiveVisionModel returns the model used for image descriptions.
func (l LLMSettings) EffectiveVisionModel() string {
	if l.VisionModel != "" {
		return l.VisionModel
	}
	return l.Model
}

// DatabaseSettings locates the chunk store.
type DatabaseSettings struct {
	// Path is the SQLite knowledge base file.
	Path string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Database  DatabaseSettings
	Server    ServerSettings
}

// APIKeySet reports whether any provider credential is configured.
func (s AppSettings) APIKeySet() bool {
	return s.Embedding.APIKey != "" || s.LLM.APIKey != ""
}

// Default values used when nothing is configured.
const (
	DefaultSimilarityThreshold = 0.68
	DefaultMaxResults          = 10
	DefaultMaxContextChunks    = 4
	DefaultWindow              = 1
	DefaultDatabasePath        = "knowledge_base.db"
	DefaultServerAddr          = ":8000"
	DefaultEmbeddingTimeout    = 30 * time.Second
	DefaultLLMTimeout          = 60 * time.Second
)

// DefaultAppSettings returns settings with sensible defaults.
// Providers default to OpenAI-compatible endpoints; credentials are left
// empty and must come from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Retrieval: RetrievalSettings{
			SimilarityThreshold: DefaultSimilarityThreshold,
			MaxResults:          DefaultMaxResults,
			MaxContextChunks:    DefaultMaxContextChunks,
			WindowBefore:        DefaultWindow,
			WindowAfter:         DefaultWindow,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
			Timeout:  DefaultEmbeddingTimeout,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
			Timeout:  DefaultLLMTimeout,
		},
		Database: DatabaseSettings{Path: DefaultDatabasePath},
		Server:   ServerSettings{Addr: DefaultServerAddr},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llava",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
