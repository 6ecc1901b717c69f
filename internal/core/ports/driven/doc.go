// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DatabaseOpener / DatabaseReader: Read-only schema and value access (SQLite)
//   - Stager / Stage: The scoped staging location holding the corpus artifact
//   - IndexBuilder: The external search-indexing engine (pyserini Lucene)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MetricsRecorder: Run metrics. Without it nothing is recorded.
//   - DatabaseWatcher: File change notifications for the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
