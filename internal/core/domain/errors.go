package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction Errors.

	// ErrSchemaIntrospection indicates tables or columns could not be listed.
	// It is fatal to the current database pass only.
	ErrSchemaIntrospection = errors.New("schema introspection failed")

	// ErrColumnQuery indicates distinct values of one column could not be read.
	// The column is skipped and the pass continues.
	ErrColumnQuery = errors.New("column query failed")

	// ErrSeparatorInName indicates a table or column name contains the
	// record id separator, so its ids would not be reversible.
	ErrSeparatorInName = errors.New("name contains record id separator")

	// ErrNameCollision indicates a table or column name lowercases to the
	// same record id prefix as one already harvested.
	ErrNameCollision = errors.New("name collides with another after lowercasing")

	// ErrInvalidRecordID indicates a string is not a well-formed record id.
	ErrInvalidRecordID = errors.New("invalid record id")

	// Staging Errors.

	// ErrStagingBusy indicates the staging location is already held by another pass.
	ErrStagingBusy = errors.New("staging location in use")

	// ErrStageReleased indicates a write was attempted on a released stage.
	ErrStageReleased = errors.New("stage released")

	// ErrCorpusSchema indicates the staged corpus does not match the {id, contents} schema.
	ErrCorpusSchema = errors.New("corpus does not match collection schema")

	// Indexing Errors.

	// ErrIndexerFailed indicates the external indexing engine exited unsuccessfully.
	ErrIndexerFailed = errors.New("indexing engine failed")

	// ErrIndexerUnavailable indicates no indexing engine is configured.
	ErrIndexerUnavailable = errors.New("indexing engine unavailable")
)
