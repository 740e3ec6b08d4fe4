package models

import "strings"

// Api names of the system fields inserted on every Type right after its
// creation, in insertion order.
const (
	FieldID               = "id"
	FieldCreatedDate      = "createdDate"
	FieldCreatedBy        = "createdBy"
	FieldLastModifiedDate = "lastModifiedDate"
	FieldLastModifiedBy   = "lastModifiedBy"
	FieldAccessType       = "accessType"
)

// systemColumns maps system field api names to their fixed column names.
// The id field maps to the kid column that every backing table carries.
var systemColumns = map[string]string{
	FieldID:               "kid",
	FieldCreatedDate:      "created_date",
	FieldCreatedBy:        "created_by",
	FieldLastModifiedDate: "last_modified_date",
	FieldLastModifiedBy:   "last_modified_by",
	FieldAccessType:       "access_type",
}

// Field is a runtime-defined attribute of a Type, analogous to a column
// definition. A Field stores the identifier of its owning Type rather than a
// live back-reference; the owning Type holds its Fields by value.
type Field struct {
	// ID is the catalog identifier of the field definition itself.
	ID KID

	// TypeID is the catalog identifier of the owning Type.
	TypeID KID

	// APIName is the programmatic name, unique within the owning Type.
	// The backing column name is derived from it.
	APIName string

	// Label is the human-readable name.
	Label string

	// DataType describes the value kind and its variant payload.
	DataType DataType

	// Required forces a value on insert and forbids nullify on update.
	// AutoNumber fields are always required.
	Required bool

	// AutoSet marks fields whose values are produced by the engine
	// (audit stamps, autonumbers); they are never written from records.
	AutoSet bool

	// TrackHistory enables a history entry per changed value on save.
	TrackHistory bool

	// DefaultValue is the string-encoded default applied to unset fields
	// on insert. TypeReference defaults hold the referenced KID.
	DefaultValue string
}

// IsSystem reports whether the field is one of the engine-owned system
// fields present on every Type.
func (f Field) IsSystem() bool {
	_, ok := systemColumns[f.APIName]
	return ok
}

// Column returns the backing column name derived from the api name. System
// fields map to their fixed columns; custom fields get an "f_" prefix so
// that derived names can never collide with engine-owned columns or SQL
// reserved words.
func (f Field) Column() string {
	if col, ok := systemColumns[f.APIName]; ok {
		return col
	}
	return "f_" + toSnakeCase(f.APIName)
}

// toSnakeCase converts a camelCase api name to snake_case.
func toSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
