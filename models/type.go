package models

import (
	"fmt"
	"time"
)

// Type is a runtime-defined record schema, analogous to a table definition.
//
// A Type owns its Fields by value and indexes them by api name and by
// identifier. Key prefix, backing table name and creation timestamp never
// change after creation. Catalog code treats a registered *Type as
// immutable: mutations go through [Type.Clone] and a snapshot swap.
type Type struct {
	// ID is the catalog identifier of the type definition.
	ID KID

	// Package and APIName together form the qualified name the Type is
	// registered under.
	Package string
	APIName string

	// Label and PluralLabel are the human-readable names.
	Label       string
	PluralLabel string

	// Prefix is the identifier namespace of records of this Type.
	// Immutable after creation.
	Prefix KeyPrefix

	// TableName is the backing table, "obj_" plus the key prefix.
	// Immutable after creation.
	TableName string

	// DefaultFieldID names the field shown when a record is referenced;
	// the id field when unset.
	DefaultFieldID KID

	// SharingControlFieldID, when set, subjects records of this Type to
	// row-level sharing checks.
	SharingControlFieldID KID

	// Basic marks built-in system Types with reserved key prefixes.
	Basic bool

	// AutoLinking is catalog metadata read by the sharing collaborator,
	// which receives the Type on every registration call and decides from
	// this flag whether to maintain reverse-lookup entries for it. The
	// engine itself does not branch on it.
	AutoLinking bool

	// DeclaredInCode marks Types shipped with the platform rather than
	// created by tenants.
	DeclaredInCode bool

	// CreatedAt is the creation timestamp. Immutable after creation.
	CreatedAt time.Time

	fields      []Field
	indexByName map[string]int
	indexByID   map[KID]int
}

// QualifiedName returns the package-qualified api name the Type is
// registered under in the catalog.
func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.APIName
	}
	return t.Package + "." + t.APIName
}

// Fields returns the fields in insertion order. The returned slice is a
// copy; mutating it does not affect the Type.
func (t *Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// FieldCount returns the number of fields.
func (t *Type) FieldCount() int { return len(t.fields) }

// Field looks a field up by api name.
func (t *Type) Field(apiName string) (Field, bool) {
	idx, ok := t.indexByName[apiName]
	if !ok {
		return Field{}, false
	}
	return t.fields[idx], true
}

// FieldByID looks a field up by its catalog identifier.
func (t *Type) FieldByID(id KID) (Field, bool) {
	idx, ok := t.indexByID[id]
	if !ok {
		return Field{}, false
	}
	return t.fields[idx], true
}

// AutoNumberField returns the Type's AutoNumber field, if any.
func (t *Type) AutoNumberField() (Field, bool) {
	for _, f := range t.fields {
		if f.DataType.Kind == KindAutoNumber {
			return f, true
		}
	}
	return Field{}, false
}

// HasSharingControl reports whether records of this Type are subject to
// row-level sharing checks.
func (t *Type) HasSharingControl() bool {
	return !t.SharingControlFieldID.IsZero()
}

// AddField appends f, enforcing api-name uniqueness within the Type and the
// at-most-one-AutoNumber invariant.
func (t *Type) AddField(f Field) error {
	if _, taken := t.indexByName[f.APIName]; taken {
		return fmt.Errorf("%w: %q on type %q", ErrDuplicateField, f.APIName, t.QualifiedName())
	}
	if f.DataType.Kind == KindAutoNumber {
		if _, exists := t.AutoNumberField(); exists {
			return fmt.Errorf("%w: type %q", ErrDuplicateAutoNumber, t.QualifiedName())
		}
	}

	if t.indexByName == nil {
		t.indexByName = make(map[string]int)
	}
	if t.indexByID == nil {
		t.indexByID = make(map[KID]int)
	}

	t.fields = append(t.fields, f)
	idx := len(t.fields) - 1
	t.indexByName[f.APIName] = idx
	if !f.ID.IsZero() {
		t.indexByID[f.ID] = idx
	}

	return nil
}

// ReplaceField swaps the field registered under f.APIName for f. The field
// must already exist.
func (t *Type) ReplaceField(f Field) error {
	idx, ok := t.indexByName[f.APIName]
	if !ok {
		return fmt.Errorf("%w: %q on type %q", ErrNoSuchField, f.APIName, t.QualifiedName())
	}

	old := t.fields[idx]
	t.fields[idx] = f
	if old.ID != f.ID {
		delete(t.indexByID, old.ID)
		if !f.ID.IsZero() {
			t.indexByID[f.ID] = idx
		}
	}

	return nil
}

// RemoveField drops the field registered under apiName and reports whether
// it existed.
func (t *Type) RemoveField(apiName string) bool {
	idx, ok := t.indexByName[apiName]
	if !ok {
		return false
	}

	removed := t.fields[idx]
	t.fields = append(t.fields[:idx], t.fields[idx+1:]...)
	delete(t.indexByName, apiName)
	delete(t.indexByID, removed.ID)
	// reindex the tail shifted left by the removal
	for i := idx; i < len(t.fields); i++ {
		t.indexByName[t.fields[i].APIName] = i
		if !t.fields[i].ID.IsZero() {
			t.indexByID[t.fields[i].ID] = i
		}
	}

	return true
}

// Clone returns a deep copy safe to mutate while the original stays
// registered in a catalog snapshot.
func (t *Type) Clone() *Type {
	clone := *t
	clone.fields = make([]Field, len(t.fields))
	copy(clone.fields, t.fields)
	clone.indexByName = make(map[string]int, len(t.indexByName))
	for k, v := range t.indexByName {
		clone.indexByName[k] = v
	}
	clone.indexByID = make(map[KID]int, len(t.indexByID))
	for k, v := range t.indexByID {
		clone.indexByID[k] = v
	}
	return &clone
}
