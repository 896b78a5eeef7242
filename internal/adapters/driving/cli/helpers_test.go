package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/23f2000673/tds-virtual-ta/internal/core/domain"
)

// mockQueryService implements driving.QueryService for CLI tests.
type mockQueryService struct {
	answer    domain.Answer
	askErr    error
	stats     domain.CorpusStats
	healthErr error
	lastQuery domain.Query
}

func (m *mockQueryService) Ask(_ context.Context, query domain.Query) (domain.Answer, error) {
	m.lastQuery = query
	return m.answer, m.askErr
}

func (m *mockQueryService) Health(_ context.Context) (domain.CorpusStats, error) {
	return m.stats, m.healthErr
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	settings    domain.AppSettings
	stored      domain.AppSettings
	retrieval   *domain.RetrievalSettings
	embedding   []string
	llm         []string
	validateErr error
}

func newMockSettings() *mockSettingsService {
	defaults := domain.DefaultAppSettings()
	return &mockSettingsService{settings: defaults, stored: defaults}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Stored() (*domain.AppSettings, error) {
	s := m.stored
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.stored = *s
	return nil
}

func (m *mockSettingsService) SetRetrieval(r domain.RetrievalSettings) error {
	m.retrieval = &r
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(p domain.AIProvider, model, apiKey string) error {
	m.embedding = []string{p.String(), model, apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.llm = []string{p.String(), model, apiKey}
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.validateErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.validateErr }

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with injected services and returns its output.
func runCLI(t *testing.T, query *mockQueryService, settings *mockSettingsService, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	oldQuery, oldSettings := queryService, settingsService
	t.Cleanup(func() {
		queryService, settingsService = oldQuery, oldSettings
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	if query != nil {
		queryService = query
	}
	if settings != nil {
		settingsService = settings
	}
	require.NotNil(t, settingsService, "tests must inject a settings service")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	if stdin != nil {
		rootCmd.SetIn(stdin)
	}
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
