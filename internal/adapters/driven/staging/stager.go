package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Ensure Stager implements the interface.
var _ driven.Stager = (*Stager)(nil)

// partialPrefix marks an artifact still being written.
const partialPrefix = ".partial-"

// Stager hands out the staging directory to one pass at a time.
type Stager struct {
	dir       string
	file      string
	validator *Validator

	mu   sync.Mutex
	held bool
}

// NewStager creates a stager for the configured directory and artifact name.
func NewStager(settings domain.StagingSettings) (*Stager, error) {
	if settings.Dir == "" || settings.File == "" {
		return nil, fmt.Errorf("%w: staging dir and file are required", domain.ErrInvalidInput)
	}
	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	return &Stager{
		dir:       settings.Dir,
		file:      settings.File,
		validator: validator,
	}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Acquire creates the staging directory if absent and clears its contents.
// A stale entry that cannot be removed is logged and left behind.
func (s *Stager) Acquire(ctx context.Context) (driven.Stage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.held {
		return nil, domain.ErrStagingBusy
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	if err := clearDir(s.dir); err != nil {
		return nil, err
	}

	s.held = true
	return &stage{
		stager: s,
		path:   filepath.Join(s.dir, s.file),
	}, nil
}

func (s *Stager) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held = false
}

// clearDir removes every entry under dir, logging per-entry failures.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing staging directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Warn("Failed to delete %s: %v", path, err)
			continue
		}
		logger.Debug("Removed stale staging entry %s", path)
	}
	return nil
}

// stage is a held staging location.
type stage struct {
	stager *Stager
	path   string

	mu       sync.Mutex
	released bool
}

// Dir implements driven.Stage.
func (st *stage) Dir() string {
	return st.stager.dir
}

// Path implements driven.Stage.
func (st *stage) Path() string {
	return st.path
}

// Write encodes and validates the corpus, then atomically replaces the
// artifact. The data is synced to disk before the rename.
func (st *stage) Write(ctx context.Context, corpus *domain.Corpus) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.released {
		return domain.ErrStageReleased
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var records []domain.Record
	if corpus != nil {
		records = corpus.Records
	}

	data, err := EncodeCorpus(records)
	if err != nil {
		return err
	}
	if err := st.stager.validator.Validate(data, records); err != nil {
		return err
	}

	partial := filepath.Join(st.stager.dir, partialPrefix+st.stager.file)
	if err := writeSynced(partial, data); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, st.path); err != nil {
		_ = os.Remove(partial)
		return fmt.Errorf("publishing corpus: %w", err)
	}
	return nil
}

// Release removes the artifact and frees the staging location.
// Calling Release more than once is a no-op.
func (st *stage) Release() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.released {
		return nil
	}
	st.released = true
	defer st.stager.release()

	var errs []error
	for _, path := range []string{st.path, filepath.Join(st.stager.dir, partialPrefix+st.stager.file)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("removing %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating corpus file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing corpus file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("syncing corpus file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing corpus file: %w", err)
	}
	return nil
}
