package driven

import (
	"time"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// MetricsRecorder observes database passes.
type MetricsRecorder interface {
	// ObserveDatabase records the outcome of one database pass.
	ObserveDatabase(outcome domain.DatabaseOutcome)

	// ObserveIndexing records how long the engine ran and whether it succeeded.
	ObserveIndexing(elapsed time.Duration, err error)
}
