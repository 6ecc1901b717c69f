// Package sqlite provides a read-only SQLite implementation of the
// DatabaseOpener and DatabaseReader driven ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Access
//
// Databases are opened with mode=ro. Only catalog queries (sqlite_master,
// pragma_table_info) and SELECT DISTINCT queries are issued; nothing is written.
//
// # Values
//
// Distinct values are read as CAST(column AS TEXT). The cast keeps the column's
// collation for DISTINCT and hands back SQLite's own text form of numbers and
// blobs rather than driver conversions.
package sqlite
