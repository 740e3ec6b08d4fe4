package catalog

import "errors"

// Catalog mutation errors. All are returned before any statement of the
// failed operation commits; callers match with [errors.Is].
var (
	// ErrTypeExists is returned when creating a type under a qualified name
	// that is already registered.
	ErrTypeExists = errors.New("type already registered under this name")

	// ErrUnknownType is returned when an operation names a type the
	// current snapshot does not hold.
	ErrUnknownType = errors.New("no type registered under this name")

	// ErrInvalidName is returned when an api name or package name does not
	// match the naming pattern.
	ErrInvalidName = errors.New("invalid api name")

	// ErrReservedName is returned when an api name collides with a reserved
	// word or a system field.
	ErrReservedName = errors.New("api name is reserved")

	// ErrTypeInUse is returned when deleting a type that other types still
	// reference through reference, collection or association fields.
	ErrTypeInUse = errors.New("type is referenced by other types")

	// ErrHooksAttached is returned when deleting a type that still has
	// automation hooks registered and the caller did not opt to strip them.
	ErrHooksAttached = errors.New("type still has automation hooks attached")

	// ErrFieldInUse is returned when deleting a field that formulas,
	// inverse collections or associations still depend on.
	ErrFieldInUse = errors.New("field is referenced by other fields")

	// ErrSystemField is returned when mutating or deleting an engine-owned
	// system field.
	ErrSystemField = errors.New("system fields cannot be changed")

	// ErrBuiltinType is returned when deleting a basic or code-declared
	// type.
	ErrBuiltinType = errors.New("built-in types cannot be deleted")

	// ErrImmutableAttribute is returned when an update touches an attribute
	// fixed at creation: key prefix, table name, creation time, or a
	// field's value kind.
	ErrImmutableAttribute = errors.New("attribute is immutable after creation")

	// ErrFieldConstraint is returned when a field definition violates a
	// kind-specific rule beyond the structural checks of the data type.
	ErrFieldConstraint = errors.New("field definition violates a constraint")
)
