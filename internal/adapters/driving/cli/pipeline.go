package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/ai"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/config/file"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/storage/sqlite"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/vector/bruteforce"
	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
	"github.com/23f2000673/tds-virtual-ta/internal/core/services"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// pipeline owns the resources behind a running query service.
type pipeline struct {
	store    *sqlite.Store
	ai       *ai.Services
	prompts  *file.PromptStore
	query    *services.QueryService
	settings *domain.AppSettings
}

// buildPipeline opens the knowledge base and providers described by settings.
func buildPipeline(settings *domain.AppSettings, configDir string) (*pipeline, error) {
	logger.Section("Startup")

	store, err := sqlite.NewStore(settings.Database.Path)
	if err != nil {
		return nil, err
	}

	providers, err := ai.NewServices(settings)
	if err != nil {
		store.Close()
		return nil, err
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		store.Close()
		providers.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	index := bruteforce.New(store, bruteforce.Config{Workers: settings.Retrieval.Workers})
	query := services.NewQueryService(store, index, providers.Embedding, providers.LLM, services.QueryConfig{
		Retrieval:        settings.Retrieval,
		EmbeddingTimeout: settings.Embedding.Timeout,
		APIKeySet:        settings.APIKeySet(),
	})
	query.SetPromptStore(prompts)

	logger.Debug("Embedding: %s (%s)", settings.Embedding.Provider, providers.Embedding.ModelName())
	logger.Debug("LLM: %s (%s)", settings.LLM.Provider, providers.LLM.ModelName())
	logger.Debug("Retrieval: threshold=%.2f max_results=%d context_chunks=%d",
		settings.Retrieval.SimilarityThreshold, settings.Retrieval.MaxResults, settings.Retrieval.MaxContextChunks)

	return &pipeline{
		store:    store,
		ai:       providers,
		prompts:  prompts,
		query:    query,
		settings: settings,
	}, nil
}

// Close releases the store and provider clients.
func (p *pipeline) Close() error {
	return errors.Join(p.ai.Close(), p.store.Close())
}
