package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/valueindex/internal/core/domain"
	"github.com/custodia-labs/valueindex/internal/core/ports/driven"
)

// Ensure Opener and Reader implement the interfaces.
var (
	_ driven.DatabaseOpener = (*Opener)(nil)
	_ driven.DatabaseReader = (*Reader)(nil)
)

// uriEscaper escapes characters with meaning in an SQLite URI filename.
var uriEscaper = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Opener opens SQLite database files read-only.
type Opener struct {
	skipTables []string
}

// NewOpener creates an opener. Tables named in skipTables, and every
// sqlite_ internal table, are never listed by readers it opens.
func NewOpener(skipTables []string) *Opener {
	return &Opener{skipTables: skipTables}
}

// Open opens the database at path in read-only mode.
func (o *Opener) Open(ctx context.Context, path string) (driven.DatabaseReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: database file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps the read-only handle and its pragmas consistent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &Reader{db: db, path: path, skipTables: o.skipTables}, nil
}

// dsn builds a read-only URI filename for path.
func dsn(path string) string {
	return "file:" + uriEscaper.Replace(path) + "?mode=ro&_pragma=busy_timeout(5000)"
}

// Reader enumerates tables, columns and distinct values of one database.
type Reader struct {
	db         *sql.DB
	path       string
	skipTables []string
}

// Path returns the database file path.
func (r *Reader) Path() string {
	return r.path
}

// Tables returns user tables in catalog order.
func (r *Reader) Tables(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		if domain.IsBookkeepingTable(name, r.skipTables) {
			continue
		}
		tables = append(tables, domain.Table{Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tables: %w", err)
	}

	return tables, nil
}

// Columns returns the columns of table in catalog order.
func (r *Reader) Columns(ctx context.Context, table string) ([]domain.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT cid, name, type FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("querying columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.Position, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		c.Table = table
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns of %s: %w", table, err)
	}

	return columns, nil
}

// DistinctValues returns every distinct non-null value of table.column as text.
func (r *Reader) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	col := quoteIdent(column)
	query := fmt.Sprintf("SELECT DISTINCT CAST(%s AS TEXT) FROM %s WHERE %s IS NOT NULL",
		col, quoteIdent(table), col)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s.%s: %w", table, column, err)
		}
		values = append(values, v.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s.%s: %w", table, column, err)
	}

	return values, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// quoteIdent quotes an SQL identifier, doubling embedded quotes.
// Reserved words and names with spaces or backticks are safe once quoted.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
