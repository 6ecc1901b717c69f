// Package cli provides the valueindex command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	verbose    bool
	configPath string
)

// MetricsExporter writes collected run metrics to a file.
type MetricsExporter interface {
	WriteTextfile(path string) error
}

// WatcherFactory creates a database watcher for a database root.
type WatcherFactory func(root string) (driven.DatabaseWatcher, error)

// Services are the collaborators the commands run against.
type Services struct {
	Orchestrator driving.IndexOrchestrator
	Settings     driving.SettingsService
	Metrics      MetricsExporter
	NewWatcher   WatcherFactory
}

// Bootstrap builds the services for a config file path ("" for the default).
type Bootstrap func(configPath string) (*Services, error)

// Services used by the commands. Assigned by applyServices.
var (
	indexOrchestrator driving.IndexOrchestrator
	settingsService   driving.SettingsService
	metricsExporter   MetricsExporter
	watcherFactory    WatcherFactory
)

var bootstrap Bootstrap

var rootCmd = &cobra.Command{
	Use:   "valueindex",
	Short: "Build value indexes over collections of SQLite databases",
	Long: `valueindex walks a directory of SQLite databases laid out as
<root>/<id>/<id>.sqlite, extracts the short distinct values of every
column, and builds one Lucene index per database with pyserini.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.valueindex/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that wires services once flags are parsed.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(configPath)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	applyServices(svc)
	return nil
}

func applyServices(svc *Services) {
	if svc == nil {
		return
	}
	indexOrchestrator = svc.Orchestrator
	settingsService = svc.Settings
	metricsExporter = svc.Metrics
	watcherFactory = svc.NewWatcher
}

// noSetup replaces setup for commands that need no services.
func noSetup(_ *cobra.Command, _ []string) {
	logger.SetVerbose(verbose)
}
