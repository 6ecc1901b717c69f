package driving

import (
	"context"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// IndexOrchestrator builds one content index per database under a root directory.
type IndexOrchestrator interface {
	// BuildAll processes every database directory under root, writing
	// indexes under dest. A failing database never stops the run; only
	// an unusable root or dest is returned as an error.
	BuildAll(ctx context.Context, root, dest string, observer Observer) (*domain.RunReport, error)

	// BuildOne processes a single database id under root.
	BuildOne(ctx context.Context, root, dest, id string) (domain.DatabaseOutcome, error)
}

// Observer is notified as a run progresses. Either field may be nil.
type Observer struct {
	// Started is called before a database pass begins.
	Started func(db domain.DatabaseRef)

	// Finished is called with the outcome of each database pass.
	Finished func(outcome domain.DatabaseOutcome)
}

// NotifyStarted calls Started if set.
func (o Observer) NotifyStarted(db domain.DatabaseRef) {
	if o.Started != nil {
		o.Started(db)
	}
}

// NotifyFinished calls Finished if set.
func (o Observer) NotifyFinished(outcome domain.DatabaseOutcome) {
	if o.Finished != nil {
		o.Finished(outcome)
	}
}
