package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure retrieval thresholds, AI providers and other options.

Environment variables (SIMILARITY_THRESHOLD, MAX_RESULTS, MAX_CONTEXT_CHUNKS,
API_KEY, DB_PATH) override stored values at run time and are never saved.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsRetrievalCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Set retrieval thresholds",
	Long: `Update the similarity search and context settings. Only flags that are
given are changed.

Examples:
  tds-ta settings retrieval --threshold 0.5 --max-results 10
  tds-ta settings retrieval --context-chunks 4 --window-before 1 --window-after 1`,
	RunE: runSettingsRetrieval,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the provider used to embed questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the provider used to answer questions and describe images.`,
	RunE:  runSettingsLLM,
}

func init() {
	f := settingsRetrievalCmd.Flags()
	f.Float64("threshold", 0, "minimum cosine similarity for a match")
	f.Int("max-results", 0, "maximum similarity hits considered")
	f.Int("context-chunks", 0, "maximum passages sent to the model")
	f.Int("window-before", 0, "neighbouring chunks included before each hit")
	f.Int("window-after", 0, "neighbouring chunks included after each hit")
	f.Int("workers", 0, "similarity scan workers (0 = all CPUs)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRetrievalCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	r := settings.Retrieval
	cmd.Println("[Retrieval]")
	cmd.Printf("  Similarity threshold: %.2f\n", r.SimilarityThreshold)
	cmd.Printf("  Max results: %d\n", r.MaxResults)
	cmd.Printf("  Max context chunks: %d\n", r.MaxContextChunks)
	cmd.Printf("  Window: %d before, %d after\n", r.WindowBefore, r.WindowAfter)
	if r.Workers > 0 {
		cmd.Printf("  Workers: %d\n", r.Workers)
	} else {
		cmd.Printf("  Workers: all CPUs\n")
	}
	cmd.Println()

	e := settings.Embedding
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", e.Provider.Description())
	cmd.Printf("  Model: %s\n", e.Model)
	printProviderAccess(cmd, e.Provider, e.BaseURL, e.APIKey)
	printStatus(cmd, e.IsConfigured())
	cmd.Println()

	l := settings.LLM
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", l.Provider.Description())
	cmd.Printf("  Model: %s\n", l.Model)
	cmd.Printf("  Vision model: %s\n", l.EffectiveVisionModel())
	printProviderAccess(cmd, l.Provider, l.BaseURL, l.APIKey)
	printStatus(cmd, l.IsConfigured())
	cmd.Println()

	cmd.Println("[Storage]")
	path := settings.Database.Path
	if dbPath != "" {
		path = dbPath
	}
	cmd.Printf("  Knowledge base: %s\n", path)
	cmd.Printf("  Listen address: %s\n", settings.Server.Addr)

	return nil
}

func printProviderAccess(cmd *cobra.Command, provider domain.AIProvider, baseURL, apiKey string) {
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if !provider.RequiresAPIKey() {
		return
	}
	if apiKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func printStatus(cmd *cobra.Command, configured bool) {
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsRetrieval(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Stored()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	r := settings.Retrieval

	flags := cmd.Flags()
	changed := false
	if flags.Changed("threshold") {
		if r.SimilarityThreshold, err = flags.GetFloat64("threshold"); err != nil {
			return err
		}
		changed = true
	}
	intFlags := []struct {
		name   string
		target *int
	}{
		{"max-results", &r.MaxResults},
		{"context-chunks", &r.MaxContextChunks},
		{"window-before", &r.WindowBefore},
		{"window-after", &r.WindowAfter},
		{"workers", &r.Workers},
	}
	for _, f := range intFlags {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.target, err = flags.GetInt(f.name); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return errors.New("no retrieval flags given")
	}
	if err := settingsService.SetRetrieval(r); err != nil {
		return fmt.Errorf("failed to set retrieval settings: %w", err)
	}

	cmd.Printf("Retrieval settings saved: threshold=%.2f max_results=%d context_chunks=%d window=%d/%d\n",
		r.SimilarityThreshold, r.MaxResults, r.MaxContextChunks, r.WindowBefore, r.WindowAfter)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

// providerSetter stores a provider choice.
type providerSetter func(provider domain.AIProvider, model, apiKey string) error

// configureProvider runs the interactive provider prompt shared by embedding and LLM setup.
func configureProvider(
	cmd *cobra.Command,
	reader *bufio.Reader,
	kind string,
	providers []domain.AIProvider,
	defaults map[domain.AIProvider]string,
	set providerSetter,
	validate func() error,
) error {
	cmd.Printf("Select %s Provider\n", kind)
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := set(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", kind, err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", kind, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n\n", kind, selected.Description(), model)
	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, "Embedding",
		domain.AllEmbeddingProviders(), domain.DefaultEmbeddingModels(),
		settingsService.SetEmbeddingProvider, settingsService.ValidateEmbeddingConfig)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	return configureProvider(cmd, reader, "LLM",
		domain.AllLLMProviders(), domain.DefaultLLMModels(),
		settingsService.SetLLMProvider, settingsService.ValidateLLMConfig)
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, else falls back to reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
