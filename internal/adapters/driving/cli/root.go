package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driving"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// App bundles the services a command drives.
type App struct {
	Config domain.Config

	// Pipeline runs fetch, detect and sync. Without credentials it only
	// accepts dry runs.
	Pipeline driving.Pipeline

	// Status reports persisted state and history.
	Status driving.StatusService

	// NewScheduler builds a scheduler over Pipeline.
	NewScheduler func(cfg domain.SchedulerConfig) driving.Scheduler

	// Close releases any open stores. May be nil.
	Close func() error
}

// ConfigLoader reads configuration from path. An empty path means defaults
// plus environment.
type ConfigLoader func(path string) (domain.Config, error)

// AppFactory builds the App for a loaded configuration.
type AppFactory func(cfg domain.Config) (*App, error)

// annotationStandalone marks commands that need no configuration.
const annotationStandalone = "standalone"

var (
	configPath string
	verbose    bool

	loadConfig ConfigLoader
	newApp     AppFactory
	app        *App
)

var rootCmd = &cobra.Command{
	Use:   "helpsync",
	Short: "Sync a help center into an OpenAI assistant",
	Long: `helpsync fetches help-center articles, detects which ones are new or
changed since the last run, and pushes only those to an OpenAI vector store
attached to the support assistant. Runs are idempotent and resumable.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.toml or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Configure injects the configuration loader and service factory.
func Configure(loader ConfigLoader, factory AppFactory) {
	loadConfig = loader
	newApp = factory
}

// Execute runs the root command. The App is closed even when the
// command fails, since cobra skips post-run hooks on error.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := teardown(rootCmd, nil); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// setup loads configuration, initialises logging and builds the App.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationStandalone] == "true" {
		return nil
	}
	if loadConfig == nil || newApp == nil {
		return errors.New("application not configured")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if verbose {
		logger.SetVerbose(true)
	}
	logger.Debug("config: data dir %s, backend %s", cfg.State.DataDir, cfg.State.Backend)

	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	app = a
	return nil
}

// teardown closes the App built by setup.
func teardown(_ *cobra.Command, _ []string) error {
	a := app
	app = nil
	if a == nil || a.Close == nil {
		return nil
	}
	return a.Close()
}

// requireRemote fails before any remote call when credentials are missing.
func requireRemote() error {
	return app.Config.OpenAI.RequireCredentials()
}
