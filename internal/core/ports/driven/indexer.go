package driven

import (
	"context"
)

// IndexBuilder hands a staged corpus to the external search-indexing engine.
// The engine's internals are opaque: success populates OutputDir with a usable
// index, failure leaves it absent or partial.
type IndexBuilder interface {
	// Build runs the engine synchronously and returns once it has exited.
	Build(ctx context.Context, req IndexRequest) error
}

// IndexRequest is the narrow set of options passed to the engine.
type IndexRequest struct {
	// InputDir is the staging directory holding the corpus artifact.
	InputDir string

	// OutputDir is the index destination, unique per database id.
	OutputDir string

	// Threads is passed through to the engine unchanged.
	Threads int
}
