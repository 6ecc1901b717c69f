package domain

import (
	"path/filepath"
	"strings"
)

// Table is a user relation enumerated from a database catalog.
type Table struct {
	// Name is the table name as reported by the catalog.
	Name string
}

// Column is a named attribute of a table.
type Column struct {
	// Table is the owning table name.
	Table string

	// Name is the column name as reported by the catalog.
	Name string

	// Position is the catalog-reported ordinal of the column (0-based).
	Position int

	// Type is the declared column type, informational only.
	Type string
}

// DatabaseRef locates one database under a root directory.
type DatabaseRef struct {
	// ID is the database id, the name of its directory and file stem.
	ID string

	// Path is the database file, <root>/<id>/<id><ext>.
	Path string

	// IndexPath is the destination index directory, <dest>/<id>.
	IndexPath string
}

// NewDatabaseRef resolves the file and index locations for a database id.
func NewDatabaseRef(root, dest, id, extension string) DatabaseRef {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return DatabaseRef{
		ID:        id,
		Path:      filepath.Join(root, id, id+extension),
		IndexPath: filepath.Join(dest, id),
	}
}

// DefaultSkipTables lists internal bookkeeping tables that never contribute values.
func DefaultSkipTables() []string {
	return []string{"sqlite_sequence"}
}

// IsBookkeepingTable reports whether name is an internal table that must be skipped.
// Names reserved by SQLite itself (the sqlite_ prefix) are always bookkeeping.
func IsBookkeepingTable(name string, skip []string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "sqlite_") {
		return true
	}
	for _, s := range skip {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
