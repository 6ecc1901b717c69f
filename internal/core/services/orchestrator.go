package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driving"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.IndexOrchestrator = (*Orchestrator)(nil)

// DatabaseBuilder runs one database pass.
type DatabaseBuilder interface {
	BuildDatabase(ctx context.Context, db domain.DatabaseRef) domain.DatabaseOutcome
}

// Orchestrator walks a root of database directories and builds one index per database.
// Databases are processed one at a time; none of them can stop the others.
type Orchestrator struct {
	builder   DatabaseBuilder
	extension string
	newRunID  func() string
	now       func() time.Time
}

// NewOrchestrator creates an orchestrator for database files with the given extension.
// newRunID may be nil, in which case runs are identified by their start time.
func NewOrchestrator(builder DatabaseBuilder, extension string, newRunID func() string) *Orchestrator {
	o := &Orchestrator{
		builder:   builder,
		extension: extension,
		newRunID:  newRunID,
		now:       time.Now,
	}
	if o.newRunID == nil {
		o.newRunID = func() string {
			return o.now().UTC().Format("20060102T150405.000000000")
		}
	}
	return o
}

// BuildAll processes every database directory under root in name order.
func (o *Orchestrator) BuildAll(
	ctx context.Context,
	root, dest string,
	observer driving.Observer,
) (*domain.RunReport, error) {
	entries, err := o.prepare(root, dest)
	if err != nil {
		return nil, err
	}

	report := &domain.RunReport{
		RunID:   o.newRunID(),
		Root:    root,
		Dest:    dest,
		Started: o.now(),
	}
	logger.Section("Run " + report.RunID)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			report.Finished = o.now()
			return report, err
		}

		if !isDatabaseDir(root, entry) {
			logger.Debug("Skipping %s: not a database directory", entry.Name())
			report.Skipped = append(report.Skipped, entry.Name())
			continue
		}

		db := domain.NewDatabaseRef(root, dest, entry.Name(), o.extension)
		observer.NotifyStarted(db)
		logger.Info("Building index for %s", db.ID)

		outcome := o.builder.BuildDatabase(ctx, db)
		report.Databases = append(report.Databases, outcome)
		observer.NotifyFinished(outcome)
	}

	report.Finished = o.now()
	logger.Info("Run %s complete: %d indexed, %d failed, %d records",
		report.RunID, report.Succeeded(), report.Failed(), report.Records())
	return report, nil
}

// BuildOne processes the single database id under root.
func (o *Orchestrator) BuildOne(ctx context.Context, root, dest, id string) (domain.DatabaseOutcome, error) {
	if id == "" || id != filepath.Base(id) {
		return domain.DatabaseOutcome{}, fmt.Errorf("%w: database id %q", domain.ErrInvalidInput, id)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return domain.DatabaseOutcome{}, fmt.Errorf("creating index root: %w", err)
	}

	info, err := os.Stat(filepath.Join(root, id))
	if err != nil || !info.IsDir() {
		return domain.DatabaseOutcome{}, fmt.Errorf("%w: database directory %s", domain.ErrNotFound, filepath.Join(root, id))
	}

	db := domain.NewDatabaseRef(root, dest, id, o.extension)
	return o.builder.BuildDatabase(ctx, db), nil
}

// prepare creates dest and lists root. os.ReadDir returns entries sorted by name.
func (o *Orchestrator) prepare(root, dest string) ([]fs.DirEntry, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating index root: %w", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing database root: %w", err)
	}
	return entries, nil
}

// isDatabaseDir reports whether entry is a directory, following symlinks.
// Metadata files next to the database directories (e.g. tables.json) are not.
func isDatabaseDir(root string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}
