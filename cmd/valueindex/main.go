package main

import (
	"os"

	"github.com/google/uuid"

	"github.com/custodia-labs/valueindex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/indexer/pyserini"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/staging"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/valueindex/internal/adapters/driven/watcher"
	"github.com/custodia-labs/valueindex/internal/adapters/driving/cli"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/core/services"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// wire builds the service graph from the config file at configPath.
func wire(configPath string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, err
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	stager, err := staging.NewStager(settings.Staging)
	if err != nil {
		return nil, err
	}

	recorder := prometheus.NewRecorder()
	builder := services.NewBuilder(
		sqlite.NewOpener(settings.Extract.SkipTables),
		services.NewExtractor(settings.Extract),
		stager,
		pyserini.New(settings.Indexer),
		settings.Indexer.Threads,
		services.WithMetrics(recorder),
	)
	orchestrator := services.NewOrchestrator(builder, settings.Extract.DatabaseExtension, uuid.NewString)

	extension := settings.Extract.DatabaseExtension
	return &cli.Services{
		Orchestrator: orchestrator,
		Settings:     settingsService,
		Metrics:      recorder,
		NewWatcher: func(root string) (driven.DatabaseWatcher, error) {
			return watcher.New(root, extension)
		},
	}, nil
}
