package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Builder runs one database pass: open, extract, stage, index, release.
//
// The staged corpus is a scoped resource. Once acquired it is released on
// every path, so a failing engine never leaks documents into the next pass.
type Builder struct {
	opener    driven.DatabaseOpener
	extractor *Extractor
	stager    driven.Stager
	indexer   driven.IndexBuilder
	metrics   driven.MetricsRecorder
	threads   int
	now       func() time.Time
}

// BuilderOption configures optional Builder collaborators.
type BuilderOption func(*Builder)

// WithMetrics records each pass with m.
func WithMetrics(m driven.MetricsRecorder) BuilderOption {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a database pass builder.
// Threads is passed opaquely to the indexing engine.
func NewBuilder(
	opener driven.DatabaseOpener,
	extractor *Extractor,
	stager driven.Stager,
	indexer driven.IndexBuilder,
	threads int,
	opts ...BuilderOption,
) *Builder {
	b := &Builder{
		opener:    opener,
		extractor: extractor,
		stager:    stager,
		indexer:   indexer,
		threads:   threads,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildDatabase runs a full pass for db. It never returns an error:
// the outcome records which step failed and why.
func (b *Builder) BuildDatabase(ctx context.Context, db domain.DatabaseRef) (outcome domain.DatabaseOutcome) {
	outcome.Database = db
	outcome.Started = b.now()

	defer func() {
		outcome.Duration = b.now().Sub(outcome.Started)
		if outcome.Err != nil {
			logger.Error("Database %s failed at %s: %v", db.ID, outcome.Stage, outcome.Err)
		} else {
			logger.Info("Database %s indexed: %d records in %s", db.ID, outcome.Records, outcome.Duration)
		}
		if b.metrics != nil {
			b.metrics.ObserveDatabase(outcome)
		}
	}()

	if b.indexer == nil {
		outcome.Fail(domain.StageIndex, domain.ErrIndexerUnavailable)
		return outcome
	}

	reader, err := b.opener.Open(ctx, db.Path)
	if err != nil {
		outcome.Fail(failureStage(ctx, domain.StageOpen), fmt.Errorf("open %s: %w", db.Path, err))
		return outcome
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Debug("Failed to close %s: %v", db.Path, err)
		}
	}()

	corpus, err := b.extractor.Extract(ctx, db.ID, reader)
	if err != nil {
		outcome.Fail(failureStage(ctx, domain.StageSchema), err)
		return outcome
	}
	outcome.Columns = corpus.Columns

	stage, err := b.stager.Acquire(ctx)
	if err != nil {
		outcome.Fail(failureStage(ctx, domain.StageStaging), fmt.Errorf("acquire staging: %w", err))
		return outcome
	}
	defer func() {
		if err := stage.Release(); err != nil {
			outcome.CleanupErr = err
			logger.Error("Failed to remove staged corpus %s: %v", stage.Path(), err)
		}
	}()

	if err := stage.Write(ctx, corpus); err != nil {
		outcome.Fail(failureStage(ctx, domain.StageStaging), fmt.Errorf("write corpus: %w", err))
		return outcome
	}
	outcome.Records = corpus.Len()
	logger.Debug("Staged %d records for %s at %s", corpus.Len(), db.ID, stage.Path())

	started := b.now()
	err = b.indexer.Build(ctx, driven.IndexRequest{
		InputDir:  stage.Dir(),
		OutputDir: db.IndexPath,
		Threads:   b.threads,
	})
	if b.metrics != nil {
		b.metrics.ObserveIndexing(b.now().Sub(started), err)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrIndexerFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrIndexerFailed, err)
		}
		outcome.Fail(failureStage(ctx, domain.StageIndex), err)
		return outcome
	}

	return outcome
}

// failureStage reports stage, or StageCancelled when the run was interrupted.
func failureStage(ctx context.Context, stage domain.FailureStage) domain.FailureStage {
	if ctx.Err() != nil {
		return domain.StageCancelled
	}
	return stage
}
