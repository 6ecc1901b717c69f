package domain

import (
	"errors"
	"fmt"
	"time"
)

// ColumnOutcome records what harvesting one column produced.
type ColumnOutcome struct {
	Table  string
	Column string

	// Harvested is the number of distinct non-null values returned.
	Harvested int

	// Kept is the number of values emitted as records.
	Kept int

	// DroppedEmpty and DroppedTooLong count filtered values.
	DroppedEmpty   int
	DroppedTooLong int

	// Err is set when the column was skipped.
	Err error
}

// OK reports whether the column was harvested.
func (o ColumnOutcome) OK() bool {
	return o.Err == nil
}

// FailureStage names the step of a database pass that failed.
type FailureStage string

// Database pass steps.
const (
	StageNone    FailureStage = ""
	StageOpen    FailureStage = "open"
	StageSchema  FailureStage = "schema"
	StageStaging FailureStage = "staging"
	StageIndex   FailureStage = "index"
	StageCleanup FailureStage = "cleanup"

	// StageCancelled means the run was interrupted, not that a step failed.
	StageCancelled FailureStage = "cancelled"
)

// DatabaseOutcome is the result of one database pass.
type DatabaseOutcome struct {
	// Database is the database the pass ran against.
	Database DatabaseRef

	// Records is the number of records staged.
	Records int

	// Columns is the per-column harvest detail.
	Columns []ColumnOutcome

	// Stage is the failing step, StageNone on success.
	Stage FailureStage

	// Err is the failure reason, nil on success.
	Err error

	// CleanupErr is set when the staged corpus could not be removed.
	// It does not make the pass fail.
	CleanupErr error

	// Started and Duration time the pass.
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the pass produced an index.
func (o DatabaseOutcome) OK() bool {
	return o.Err == nil
}

// Fail marks the outcome failed at stage.
func (o *DatabaseOutcome) Fail(stage FailureStage, err error) {
	o.Stage = stage
	o.Err = err
}

// FailedColumns counts columns that were skipped.
func (o DatabaseOutcome) FailedColumns() int {
	n := 0
	for i := range o.Columns {
		if o.Columns[i].Err != nil {
			n++
		}
	}
	return n
}

// RunReport aggregates the outcomes of one orchestrated run.
type RunReport struct {
	// RunID uniquely identifies the run in logs and metrics output.
	RunID string

	// Root and Dest are the database root and index root of the run.
	Root string
	Dest string

	// Databases are in processing order.
	Databases []DatabaseOutcome

	// Skipped lists root entries that are not database directories.
	Skipped []string

	Started  time.Time
	Finished time.Time
}

// Succeeded returns the number of databases that were indexed.
func (r *RunReport) Succeeded() int {
	n := 0
	for i := range r.Databases {
		if r.Databases[i].OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of databases whose pass failed.
func (r *RunReport) Failed() int {
	return len(r.Databases) - r.Succeeded()
}

// Records returns the total number of records staged across databases.
func (r *RunReport) Records() int {
	n := 0
	for i := range r.Databases {
		n += r.Databases[i].Records
	}
	return n
}

// Err joins the failures of the run, or returns nil if every database succeeded.
func (r *RunReport) Err() error {
	var errs []error
	for i := range r.Databases {
		if err := r.Databases[i].Err; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Databases[i].Database.ID, err))
		}
	}
	return errors.Join(errs...)
}
