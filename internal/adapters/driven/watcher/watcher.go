package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
	"github.com/custodia-labs/valueindex/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.DatabaseWatcher = (*Watcher)(nil)

// DefaultQuietPeriod is how long a database file must stay unchanged
// before its id is reported. SQLite writes a file in many small bursts.
const DefaultQuietPeriod = 500 * time.Millisecond

// Watcher watches <root>/<id>/<id><ext> files with fsnotify.
type Watcher struct {
	root      string
	extension string
	quiet     time.Duration
	fsw       *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithQuietPeriod overrides DefaultQuietPeriod.
func WithQuietPeriod(d time.Duration) Option {
	return func(w *Watcher) {
		w.quiet = d
	}
}

// New watches root and every database directory directly under it.
func New(root, extension string, opts ...Option) (*Watcher, error) {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{root: root, extension: extension, quiet: DefaultQuietPeriod, fsw: fsw}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := fsw.Add(dir); err != nil {
			logger.Warn("Cannot watch %s: %v", dir, err)
		}
	}

	return w, nil
}

// Watch emits database ids once their file has been quiet for the quiet period.
// Ids that change together are emitted in name order.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, <-chan error, error) {
	ids := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(ids)
		defer close(errs)

		pending := make(map[string]struct{})
		var flush <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if id, changed := w.handleEvent(event); changed {
					pending[id] = struct{}{}
					flush = time.After(w.quiet)
				}

			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				default:
					logger.Warn("Watcher error: %v", err)
				}

			case <-flush:
				flush = nil
				for _, id := range sortedKeys(pending) {
					select {
					case ids <- id:
					case <-ctx.Done():
						return
					}
				}
				clear(pending)
			}
		}
	}()

	return ids, errs, nil
}

// Close stops watching and closes the Watch channels.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleEvent maps an fsnotify event to the database id it touches.
// New database directories are added to the watch as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}

	dir, file := filepath.Split(rel)
	dir = filepath.Clean(dir)

	if dir == "." {
		// A direct child of root: only new directories matter.
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() || !event.Has(fsnotify.Create) {
			return "", false
		}
		if err := w.fsw.Add(event.Name); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
			logger.Warn("Cannot watch %s: %v", event.Name, err)
			return "", false
		}
		// The database file may have been written before the watch was added.
		if _, err := os.Stat(filepath.Join(event.Name, file+w.extension)); err == nil {
			return file, true
		}
		return "", false
	}

	if filepath.Dir(dir) != "." || file != dir+w.extension {
		return "", false
	}
	return dir, true
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
