package driven

import (
	"context"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// Stager manages the staging location the corpus artifact is written to.
// Only one Stage may be held at a time.
type Stager interface {
	// Acquire creates the staging directory if needed, clears any stale
	// entries inside it, and returns the held stage.
	Acquire(ctx context.Context) (Stage, error)
}

// Stage is a held staging location. Release must be called on every path.
type Stage interface {
	// Dir is the directory handed to the indexing engine.
	Dir() string

	// Path is the corpus artifact inside Dir.
	Path() string

	// Write serialises the full corpus, replacing any previous content.
	// The artifact is flushed to disk before Write returns.
	Write(ctx context.Context, corpus *domain.Corpus) error

	// Release removes the corpus artifact and frees the staging location.
	// Release is idempotent.
	Release() error
}
