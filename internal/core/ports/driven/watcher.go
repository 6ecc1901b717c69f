package driven

import "context"

// DatabaseWatcher reports database ids whose database file changed.
type DatabaseWatcher interface {
	// Watch emits a database id each time its file is created or written.
	// Both channels are closed when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, <-chan error, error)

	// Close stops watching.
	Close() error
}
