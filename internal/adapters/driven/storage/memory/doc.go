// Package memory provides in-memory implementations of driven port interfaces
// for tests and for runs without a configuration file.
package memory
