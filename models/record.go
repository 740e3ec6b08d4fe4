package models

import (
	"fmt"
	"sort"
	"strings"
)

// nullValue is the type of the [Null] sentinel.
type nullValue struct{}

// Null is the explicit nullify sentinel. Setting a field to Null is distinct
// from leaving it unset: on update, an unset field is left untouched while a
// Null field forces the column to NULL.
var Null nullValue

// Record is a dynamically typed, schema-bound value bag representing one row
// of a Type.
//
// A field is in one of three states: unset (never populated), set to null,
// or set to a value. Reading an unset field returns
// [ErrUninitializedField]; reading a null field returns a nil value without
// error. Path-qualified access ("a.b.c") traverses nested records produced
// by TypeReference projections.
type Record struct {
	typeName string
	values   map[string]any
}

// NewRecord returns an empty record bound to the Type registered under
// typeName (the package-qualified api name).
func NewRecord(typeName string) *Record {
	return &Record{
		typeName: typeName,
		values:   make(map[string]any),
	}
}

// TypeName returns the qualified name of the Type the record is bound to.
func (r *Record) TypeName() string { return r.typeName }

// Set stores value under the field api name. Passing [Null] is equivalent to
// [Record.SetNull].
func (r *Record) Set(field string, value any) *Record {
	if _, isNull := value.(nullValue); isNull {
		return r.SetNull(field)
	}
	r.values[field] = value
	return r
}

// SetNull marks the field as explicitly null.
func (r *Record) SetNull(field string) *Record {
	r.values[field] = nil
	return r
}

// Unset removes the field from the record entirely, returning it to the
// "never populated" state.
func (r *Record) Unset(field string) {
	delete(r.values, field)
}

// Get returns the stored value of a field or path-qualified property.
//
// A single field name reads directly from this record. A dotted path
// ("customer.address.city") descends through nested records; every
// intermediate segment must hold a nested *Record.
//
// Returns [ErrUninitializedField] when any segment was never populated and
// [ErrNoSuchField] when an intermediate segment holds a non-record value.
func (r *Record) Get(path string) (any, error) {
	segments := strings.Split(path, ".")
	current := r
	for i, segment := range segments {
		value, ok := current.values[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q on record of type %q", ErrUninitializedField, strings.Join(segments[:i+1], "."), current.typeName)
		}
		if i == len(segments)-1 {
			return value, nil
		}

		nested, isRecord := value.(*Record)
		if !isRecord {
			return nil, fmt.Errorf("%w: %q is not a nested record", ErrNoSuchField, strings.Join(segments[:i+1], "."))
		}
		current = nested
	}

	return nil, fmt.Errorf("%w: empty path", ErrNoSuchField)
}

// Has reports whether the field was populated, whether with a value or an
// explicit null.
func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

// IsNull reports whether the field was populated with an explicit null.
func (r *Record) IsNull(field string) bool {
	value, ok := r.values[field]
	return ok && value == nil
}

// FieldNames returns the populated field names in lexical order.
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KID returns the record identifier stored in the id field.
func (r *Record) KID() (KID, error) {
	value, err := r.Get(FieldID)
	if err != nil {
		return "", err
	}
	switch v := value.(type) {
	case KID:
		return v, nil
	case string:
		return ParseKID(v)
	default:
		return "", fmt.Errorf("%w: id holds %T", ErrKIDFormat, value)
	}
}

// SetKID stores the record identifier in the id field.
func (r *Record) SetKID(id KID) {
	r.values[FieldID] = id
}

// Clone returns a deep copy: nested records are cloned recursively, slices
// are copied. Lifecycle hooks run against clones so that hook mutations
// never leak into the caller's record.
func (r *Record) Clone() *Record {
	clone := NewRecord(r.typeName)
	for name, value := range r.values {
		switch v := value.(type) {
		case *Record:
			clone.values[name] = v.Clone()
		case []*Record:
			nested := make([]*Record, len(v))
			for i, item := range v {
				nested[i] = item.Clone()
			}
			clone.values[name] = nested
		case []string:
			s := make([]string, len(v))
			copy(s, v)
			clone.values[name] = s
		default:
			clone.values[name] = value
		}
	}
	return clone
}
