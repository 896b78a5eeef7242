package ai

import (
	"fmt"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings before they are used to answer
// questions. Empty settings pass; anything configured must name a provider
// that supports the role and must answer a ping.
type ConfigValidator struct{}

// NewConfigValidator creates a provider config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding rejects providers that cannot embed questions and pings the rest.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: %s cannot embed questions, use %s or %s",
			domain.ErrInvalidInput, config.Provider.Description(),
			domain.AIProviderOllama, domain.AIProviderOpenAI)
	}
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM rejects unknown providers and pings the configured one.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil || config.Provider == "" {
		return nil
	}
	if !config.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, config.Provider)
	}
	return ValidateLLMConfig(config)
}
