package store

import "errors"

// Domain errors raised at the mapping boundary. Database-level failures are
// translated to these rather than leaking driver-specific error shapes;
// callers should use [errors.Is] to match against them.
var (
	// ErrConstraintViolation is returned when a unique, foreign-key,
	// not-null or check constraint fails. It is re-raised from the raw
	// driver error and never recovered locally.
	ErrConstraintViolation = errors.New("database constraint violated")

	// ErrTypeNotFound is returned when a catalog row lookup by identifier
	// or qualified name produces no rows.
	ErrTypeNotFound = errors.New("type metadata row was not found")

	// ErrFieldNotFound is returned when a field metadata row lookup
	// produces no rows.
	ErrFieldNotFound = errors.New("field metadata row was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// store methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrExecutingDDL is returned when a schema-change statement fails.
	// Metadata mutations surface it as a persistence failure and roll the
	// whole logical operation back.
	ErrExecutingDDL = errors.New("failed to execute ddl statement")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back at this
	// point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
