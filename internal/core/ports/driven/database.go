package driven

import (
	"context"

	"github.com/custodia-labs/valueindex/internal/core/domain"
)

// DatabaseOpener opens databases for read-only extraction.
type DatabaseOpener interface {
	// Open opens the database file at path. No writes are ever issued.
	Open(ctx context.Context, path string) (DatabaseReader, error)
}

// DatabaseReader enumerates a database's schema and harvests column values.
type DatabaseReader interface {
	// Tables returns user tables in catalog order, excluding internal
	// bookkeeping tables.
	Tables(ctx context.Context) ([]domain.Table, error)

	// Columns returns the columns of a table in catalog order.
	Columns(ctx context.Context, table string) ([]domain.Column, error)

	// DistinctValues returns every distinct non-null value of a column,
	// stringified and untrimmed, in the order the query returns them.
	DistinctValues(ctx context.Context, table, column string) ([]string, error)

	// Close releases the database handle.
	Close() error
}
