// Package cli provides the command-line interface for the teaching assistant.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/ai"
	"github.com/23f2000673/tds-virtual-ta/internal/adapters/driven/config/file"
	"github.com/23f2000673/tds-virtual-ta/internal/core/ports/driving"
	"github.com/23f2000673/tds-virtual-ta/internal/core/services"
	"github.com/23f2000673/tds-virtual-ta/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// Flag values.
	verbose   bool
	configDir string
	dbPath    string
	envFile   string

	// settingsService and queryService are injected by tests or built on demand.
	settingsService driving.SettingsService
	queryService    driving.QueryService

	// active holds the resources opened for queryService.
	active *pipeline
)

var rootCmd = &cobra.Command{
	Use:   "tds-ta",
	Short: "Virtual teaching assistant for Tools in Data Science",
	Long: `tds-ta answers student questions from the course forum and course notes.

Questions are embedded, matched against the indexed knowledge base, widened
with neighbouring chunks and answered by a language model that cites the
posts and pages it used.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configDir, "config", "", "config directory (default ~/.tds-ta)")
	flags.StringVar(&dbPath, "db", "", "knowledge base path (overrides DB_PATH and config)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading settings")
}

// Execute runs the root command with a context cancelled on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if settingsService != nil {
		return nil
	}

	dir := configDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}
	configDir = dir

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(store, ai.NewConfigValidator())
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if active == nil {
		return nil
	}
	err := active.Close()
	active = nil
	queryService = nil
	return err
}

// requireQueryService returns the injected query service or builds the pipeline.
func requireQueryService() (driving.QueryService, error) {
	if queryService != nil {
		return queryService, nil
	}
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if dbPath != "" {
		settings.Database.Path = dbPath
	}

	p, err := buildPipeline(settings, configDir)
	if err != nil {
		return nil, err
	}
	active = p
	queryService = p.query
	return queryService, nil
}
