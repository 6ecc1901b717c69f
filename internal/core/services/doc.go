// Package services implements the driving port interfaces.
// The extractor, builder and orchestrator turn a root of databases into
// one staged corpus and index per database, through driven ports only.
package services
