package models

import "errors"

// Sentinel errors raised by the core value types. Callers should use
// [errors.Is] to match against these values; every raising site wraps them
// with the offending value for context.
var (
	// ErrKIDFormat is returned when a record identifier is not exactly
	// thirteen characters, carries an unknown symbol, or cannot be produced
	// from the given prefix and sequence. Malformed identifiers are never
	// silently truncated or coerced.
	ErrKIDFormat = errors.New("malformed record identifier")

	// ErrKeyPrefixFormat is the three-character analogue of [ErrKIDFormat].
	ErrKeyPrefixFormat = errors.New("malformed key prefix")

	// ErrUninitializedField is returned when reading a record field that was
	// never populated — neither by the originating query projection nor by a
	// caller. It is distinct from a genuine stored null, which reads back as
	// a nil value without error.
	ErrUninitializedField = errors.New("field was not initialized")

	// ErrNoSuchField is returned when a property path references a field
	// that does not exist on the resolved Type, or traverses a value that is
	// not a nested record.
	ErrNoSuchField = errors.New("no such field")

	// ErrDataTypeDefinition is returned when a DataType carries an invalid
	// variant payload (missing enumeration values, bad autonumber format,
	// and so on).
	ErrDataTypeDefinition = errors.New("invalid data type definition")

	// ErrDuplicateField is returned when adding a field whose api name is
	// already taken on the owning Type.
	ErrDuplicateField = errors.New("duplicate field api name")

	// ErrDuplicateAutoNumber is returned when adding a second AutoNumber
	// field to a Type; at most one is allowed.
	ErrDuplicateAutoNumber = errors.New("type already has an autonumber field")

	// ErrCriteria is returned when a query description is structurally
	// invalid: a connective with the wrong number of children, a malformed
	// subquery, or a property path with no registered alias.
	ErrCriteria = errors.New("invalid criteria")
)
