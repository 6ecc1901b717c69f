package services

import (
	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxValueLength    = "extract.max_value_length"
	keyDatabaseExtension = "extract.database_extension"
	keySkipTables        = "extract.skip_tables"
	keyStagingDir        = "staging.dir"
	keyStagingFile       = "staging.file"
	keyIndexerCommand    = "indexer.command"
	keyIndexerArgs       = "indexer.args"
	keyIndexerCollection = "indexer.collection"
	keyIndexerGenerator  = "indexer.generator"
	keyIndexerThreads    = "indexer.threads"
	keyStorePositions    = "indexer.store_positions"
	keyStoreDocvectors   = "indexer.store_docvectors"
	keyStoreRaw          = "indexer.store_raw"
	keyMetricsTextfile   = "metrics.textfile"
)

// SettingsService resolves run settings from a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
// A nil configStore yields the defaults.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns defaults overlaid with configured values, validated.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	if s.configStore == nil {
		return &settings, nil
	}

	settings.Extract.MaxValueLength = s.getInt(keyMaxValueLength, settings.Extract.MaxValueLength)
	settings.Extract.DatabaseExtension = s.getString(keyDatabaseExtension, settings.Extract.DatabaseExtension)
	settings.Extract.SkipTables = s.getStringSlice(keySkipTables, settings.Extract.SkipTables)

	settings.Staging.Dir = s.getString(keyStagingDir, settings.Staging.Dir)
	settings.Staging.File = s.getString(keyStagingFile, settings.Staging.File)

	settings.Indexer.Command = s.getString(keyIndexerCommand, settings.Indexer.Command)
	settings.Indexer.Args = s.getStringSlice(keyIndexerArgs, settings.Indexer.Args)
	settings.Indexer.Collection = s.getString(keyIndexerCollection, settings.Indexer.Collection)
	settings.Indexer.Generator = s.getString(keyIndexerGenerator, settings.Indexer.Generator)
	settings.Indexer.Threads = s.getInt(keyIndexerThreads, settings.Indexer.Threads)
	settings.Indexer.StorePositions = s.getBool(keyStorePositions, settings.Indexer.StorePositions)
	settings.Indexer.StoreDocvectors = s.getBool(keyStoreDocvectors, settings.Indexer.StoreDocvectors)
	settings.Indexer.StoreRaw = s.getBool(keyStoreRaw, settings.Indexer.StoreRaw)

	settings.Metrics.Textfile = s.configStore.GetString(keyMetricsTextfile) // No default - empty disables export

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt returns the configured value whenever the key is present, so an
// explicit 0 reaches validation instead of silently becoming the default.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}
