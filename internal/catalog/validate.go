package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/metacore-io/metacore/internal/query/formula"
	"github.com/metacore-io/metacore/models"
)

// maxNameLength bounds api names so derived column names stay well under
// the relational engine's identifier limit.
const maxNameLength = 60

var (
	// api names start with a letter and are alphanumeric with single
	// interior underscores; no leading, trailing or doubled underscore.
	apiNamePattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*(_[a-zA-Z0-9]+)*$`)
	packagePattern = regexp.MustCompile(`^[a-z][a-z0-9]{0,29}$`)
)

// reservedNames may not be used as api names: SQL keywords that would make
// generated statements ambiguous plus engine-owned identifiers.
var reservedNames = map[string]struct{}{
	"select": {}, "insert": {}, "update": {}, "delete": {}, "from": {},
	"where": {}, "join": {}, "order": {}, "group": {}, "table": {},
	"index": {}, "null": {}, "true": {}, "false": {}, "and": {}, "or": {},
	"not": {}, "in": {}, "like": {}, "limit": {}, "type": {}, "field": {},
	"kid": {}, "nid": {}, "authChecked": {},
}

func validateTypeName(pkg, apiName string) error {
	if !packagePattern.MatchString(pkg) {
		return fmt.Errorf("%w: package %q", ErrInvalidName, pkg)
	}
	if len(apiName) > maxNameLength || !apiNamePattern.MatchString(apiName) {
		return fmt.Errorf("%w: %q", ErrInvalidName, apiName)
	}
	if _, reserved := reservedNames[strings.ToLower(apiName)]; reserved {
		return fmt.Errorf("%w: %q", ErrReservedName, apiName)
	}
	return nil
}

func validateFieldName(apiName string) error {
	if len(apiName) > maxNameLength || !apiNamePattern.MatchString(apiName) {
		return fmt.Errorf("%w: %q", ErrInvalidName, apiName)
	}
	if _, reserved := reservedNames[strings.ToLower(apiName)]; reserved {
		return fmt.Errorf("%w: %q", ErrReservedName, apiName)
	}
	if _, system := map[string]struct{}{
		models.FieldID: {}, models.FieldCreatedDate: {}, models.FieldCreatedBy: {},
		models.FieldLastModifiedDate: {}, models.FieldLastModifiedBy: {}, models.FieldAccessType: {},
	}[apiName]; system {
		return fmt.Errorf("%w: %q is a system field", ErrReservedName, apiName)
	}
	return nil
}

// typeLookup resolves type identifiers during validation. During CreateType
// the pending type itself is visible so self-references work.
type typeLookup func(id models.KID) (*models.Type, bool)

// validateField checks the kind-specific constraints of a field definition
// against the owning type and the catalog, beyond the structural checks of
// [models.DataType.Validate].
func (e *Environment) validateField(lookup typeLookup, owner *models.Type, f models.Field) error {
	if err := f.DataType.Validate(); err != nil {
		return err
	}

	switch f.DataType.Kind {
	case models.KindText:
		if f.DataType.Length > e.engine.TextLengthCeiling {
			return fmt.Errorf("%w: text length %d exceeds ceiling %d",
				ErrFieldConstraint, f.DataType.Length, e.engine.TextLengthCeiling)
		}

	case models.KindFormula:
		if f.Required {
			return fmt.Errorf("%w: formula field %q cannot be required", ErrFieldConstraint, f.APIName)
		}
		expr, err := formula.Parse(f.DataType.Formula)
		if err != nil {
			return err
		}
		for _, name := range expr.FieldNames() {
			ref, ok := owner.Field(name)
			if !ok {
				return fmt.Errorf("%w: formula %q references missing field %q",
					ErrFieldConstraint, f.APIName, name)
			}
			if ref.DataType.Kind == models.KindFormula {
				return fmt.Errorf("%w: formula %q references formula field %q",
					ErrFieldConstraint, f.APIName, name)
			}
			if !ref.DataType.Kind.HasColumn() {
				return fmt.Errorf("%w: formula %q references %s field %q",
					ErrFieldConstraint, f.APIName, ref.DataType.Kind, name)
			}
		}

	case models.KindAutoNumber:
		if !f.Required {
			return fmt.Errorf("%w: autonumber field %q must be required", ErrFieldConstraint, f.APIName)
		}

	case models.KindTypeReference:
		if _, ok := lookup(f.DataType.ReferencedTypeID); !ok {
			return fmt.Errorf("%w: reference %q targets unknown type %s",
				ErrFieldConstraint, f.APIName, f.DataType.ReferencedTypeID)
		}

	case models.KindInverseCollection:
		child, ok := lookup(f.DataType.ReferencedTypeID)
		if !ok {
			return fmt.Errorf("%w: collection %q targets unknown type %s",
				ErrFieldConstraint, f.APIName, f.DataType.ReferencedTypeID)
		}
		mirror, ok := child.Field(f.DataType.MirrorField)
		if !ok {
			return fmt.Errorf("%w: collection %q mirrors missing field %q on %q",
				ErrFieldConstraint, f.APIName, f.DataType.MirrorField, child.QualifiedName())
		}
		if mirror.DataType.Kind != models.KindTypeReference || mirror.DataType.ReferencedTypeID != owner.ID {
			return fmt.Errorf("%w: collection %q mirrors field %q which does not reference %q",
				ErrFieldConstraint, f.APIName, f.DataType.MirrorField, owner.QualifiedName())
		}

	case models.KindAssociation:
		link, ok := lookup(f.DataType.LinkingTypeID)
		if !ok {
			return fmt.Errorf("%w: association %q uses unknown linking type %s",
				ErrFieldConstraint, f.APIName, f.DataType.LinkingTypeID)
		}
		selfRef, ok := link.Field(f.DataType.SelfLinkingField)
		if !ok {
			return fmt.Errorf("%w: association %q misses linking field %q",
				ErrFieldConstraint, f.APIName, f.DataType.SelfLinkingField)
		}
		if selfRef.DataType.Kind != models.KindTypeReference || selfRef.DataType.ReferencedTypeID != owner.ID {
			return fmt.Errorf("%w: linking field %q does not reference %q",
				ErrFieldConstraint, f.DataType.SelfLinkingField, owner.QualifiedName())
		}
		foreignRef, ok := link.Field(f.DataType.ForeignLinkingField)
		if !ok {
			return fmt.Errorf("%w: association %q misses linking field %q",
				ErrFieldConstraint, f.APIName, f.DataType.ForeignLinkingField)
		}
		if foreignRef.DataType.Kind != models.KindTypeReference {
			return fmt.Errorf("%w: linking field %q is not a reference",
				ErrFieldConstraint, f.DataType.ForeignLinkingField)
		}
		if !selfRef.Required || !foreignRef.Required {
			return fmt.Errorf("%w: linking fields of %q must be required",
				ErrFieldConstraint, f.APIName)
		}
	}

	return nil
}
