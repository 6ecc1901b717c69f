package domain

import (
	"fmt"
	"path/filepath"
)

// Settings holds all tunable options of an indexing run.
type Settings struct {
	Extract ExtractSettings
	Staging StagingSettings
	Indexer IndexerSettings
	Metrics MetricsSettings
}

// ExtractSettings configures how values are harvested and filtered.
type ExtractSettings struct {
	// MaxValueLength is the inclusive upper bound on kept value length.
	MaxValueLength int

	// DatabaseExtension is the file extension of database files, e.g. ".sqlite".
	DatabaseExtension string

	// SkipTables lists bookkeeping tables that never contribute values.
	SkipTables []string
}

// StagingSettings configures the scoped staging location.
type StagingSettings struct {
	// Dir is the staging directory handed to the engine as its input.
	Dir string

	// File is the corpus artifact name inside Dir.
	File string
}

// CorpusPath returns the full path of the staged corpus artifact.
func (s StagingSettings) CorpusPath() string {
	return filepath.Join(s.Dir, s.File)
}

// IndexerSettings configures the external indexing engine invocation.
type IndexerSettings struct {
	// Command is the executable to run, e.g. "python".
	Command string

	// Args precede the engine options, e.g. ["-m", "pyserini.index.lucene"].
	Args []string

	// Collection is the engine's collection format selector.
	Collection string

	// Generator is the engine's document generator selector.
	Generator string

	// Threads is passed opaquely to the engine.
	Threads int

	StorePositions  bool
	StoreDocvectors bool
	StoreRaw        bool
}

// MetricsSettings configures optional run metrics export.
type MetricsSettings struct {
	// Textfile, when set, receives run metrics in Prometheus text format.
	Textfile string
}

// DefaultSettings returns settings matching the pyserini Lucene indexer.
func DefaultSettings() Settings {
	return Settings{
		Extract: ExtractSettings{
			MaxValueLength:    DefaultMaxValueLength,
			DatabaseExtension: ".sqlite",
			SkipTables:        DefaultSkipTables(),
		},
		Staging: StagingSettings{
			Dir:  filepath.Join("data", "temp_db_index"),
			File: "contents.json",
		},
		Indexer: IndexerSettings{
			Command:         "python",
			Args:            []string{"-m", "pyserini.index.lucene"},
			Collection:      "JsonCollection",
			Generator:       "DefaultLuceneDocumentGenerator",
			Threads:         16,
			StorePositions:  true,
			StoreDocvectors: true,
			StoreRaw:        true,
		},
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.Extract.MaxValueLength < 1 {
		return fmt.Errorf("%w: max value length must be positive, got %d", ErrInvalidInput, s.Extract.MaxValueLength)
	}
	if s.Staging.Dir == "" || s.Staging.File == "" {
		return fmt.Errorf("%w: staging dir and file are required", ErrInvalidInput)
	}
	if filepath.Base(s.Staging.File) != s.Staging.File {
		return fmt.Errorf("%w: staging file %q must be a bare file name", ErrInvalidInput, s.Staging.File)
	}
	if s.Indexer.Command == "" {
		return fmt.Errorf("%w: indexer command is required", ErrInvalidInput)
	}
	if s.Indexer.Threads < 1 {
		return fmt.Errorf("%w: indexer threads must be positive, got %d", ErrInvalidInput, s.Indexer.Threads)
	}
	return nil
}
