package models

import (
	"fmt"
	"regexp"
	"strings"
)

// DataKind enumerates the value kinds a field may hold. Exactly one kind is
// assigned per field; variant-specific payloads live on [DataType].
type DataKind int

const (
	// KindText is a bounded single-line string.
	KindText DataKind = iota + 1

	// KindNumber is a numeric value whose representation is refined by
	// [NumberKind].
	KindNumber

	// KindCheckbox is a boolean flag.
	KindCheckbox

	// KindDate is a calendar date without time-of-day.
	KindDate

	// KindDateTime is a timestamp with one-second resolution.
	KindDateTime

	// KindEmail is a text value validated against an email pattern.
	KindEmail

	// KindEnumeration is a single choice from either an inline value list
	// or an external dictionary — never both, never neither.
	KindEnumeration

	// KindMultiEnumeration is a set of choices from a non-empty inline
	// value list, stored as a SQL array.
	KindMultiEnumeration

	// KindFormula is a computed expression inlined into queries instead of
	// a stored column. Formula fields may not reference other formula
	// fields and can never be required.
	KindFormula

	// KindAutoNumber is a server-assigned sequential label rendered from a
	// "<prefix>{0000}" format string. Always required; a field's kind may
	// never change away from AutoNumber, and a Type holds at most one.
	KindAutoNumber

	// KindTypeReference is a foreign-key link to one record of another
	// Type, stored as that record's KID.
	KindTypeReference

	// KindInverseCollection is the reverse side of a TypeReference: the set
	// of records on another Type whose reference field points here. It has
	// no backing column.
	KindInverseCollection

	// KindAssociation is a many-to-many link realised through a linking
	// Type carrying two required TypeReference fields. It has no backing
	// column.
	KindAssociation
)

var dataKindNames = map[DataKind]string{
	KindText:              "Text",
	KindNumber:            "Number",
	KindCheckbox:          "Checkbox",
	KindDate:              "Date",
	KindDateTime:          "DateTime",
	KindEmail:             "Email",
	KindEnumeration:       "Enumeration",
	KindMultiEnumeration:  "MultiEnumeration",
	KindFormula:           "Formula",
	KindAutoNumber:        "AutoNumber",
	KindTypeReference:     "TypeReference",
	KindInverseCollection: "InverseCollection",
	KindAssociation:       "Association",
}

// String implements fmt.Stringer.
func (k DataKind) String() string {
	if name, ok := dataKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DataKind(%d)", int(k))
}

// IsCollection reports whether the kind yields multiple child records.
func (k DataKind) IsCollection() bool {
	return k == KindInverseCollection || k == KindAssociation
}

// HasColumn reports whether fields of this kind own a physical column on the
// backing table. Formula and collection kinds are query-time constructs.
func (k DataKind) HasColumn() bool {
	return k != KindFormula && !k.IsCollection()
}

// NumberKind refines how a Number field represents its values.
type NumberKind int

const (
	// NumberInteger stores whole numbers as 64-bit integers.
	NumberInteger NumberKind = iota + 1

	// NumberDecimal stores arbitrary-precision decimals with a declared
	// number of places after the point.
	NumberDecimal

	// NumberFloat stores IEEE 754 double-precision values.
	NumberFloat
)

// autoNumberFormatPattern matches "<prefix>{0000}": any prefix without
// braces followed by one or more zeros in braces giving the padding width.
var autoNumberFormatPattern = regexp.MustCompile(`^([^{}]*)\{(0+)\}$`)

// DataType is the tagged-union description of a field's value kind.
//
// Kind selects the variant; only the payload fields belonging to that
// variant are meaningful. [DataType.Validate] enforces the per-variant
// constraints and is called on every field create and update.
type DataType struct {
	Kind DataKind

	// Length is the maximum rune count of Text values.
	Length int

	// NumberKind and DecimalPlaces refine Number fields.
	NumberKind    NumberKind
	DecimalPlaces int

	// ReferencedTypeID is the target Type of a TypeReference or the child
	// Type of an InverseCollection.
	ReferencedTypeID KID

	// CascadeDelete selects ON DELETE CASCADE (true) or SET NULL (false)
	// for the foreign-key constraint of a TypeReference.
	CascadeDelete bool

	// MirrorField is the api name of the TypeReference field on the child
	// Type that an InverseCollection reverses.
	MirrorField string

	// LinkingTypeID, SelfLinkingField and ForeignLinkingField describe an
	// Association: the linking Type and the api names of its two required
	// TypeReference fields pointing back here and at the far side.
	LinkingTypeID       KID
	SelfLinkingField    string
	ForeignLinkingField string

	// Formula is the source expression of a Formula field.
	Formula string

	// DictionaryID resolves Enumeration values through the dictionary
	// collaborator when no inline values are given.
	DictionaryID string

	// EnumValues is the inline value list of an Enumeration or
	// MultiEnumeration.
	EnumValues []string

	// AutoNumberFormat is the "<prefix>{0000}" render format of an
	// AutoNumber field.
	AutoNumberFormat string
}

// TextType returns a Text DataType with the given maximum length.
func TextType(length int) DataType {
	return DataType{Kind: KindText, Length: length}
}

// NumberType returns a Number DataType. decimalPlaces is only meaningful for
// [NumberDecimal].
func NumberType(kind NumberKind, decimalPlaces int) DataType {
	return DataType{Kind: KindNumber, NumberKind: kind, DecimalPlaces: decimalPlaces}
}

// CheckboxType returns a Checkbox DataType.
func CheckboxType() DataType { return DataType{Kind: KindCheckbox} }

// DateType returns a Date DataType.
func DateType() DataType { return DataType{Kind: KindDate} }

// DateTimeType returns a DateTime DataType.
func DateTimeType() DataType { return DataType{Kind: KindDateTime} }

// EmailType returns an Email DataType.
func EmailType() DataType { return DataType{Kind: KindEmail} }

// EnumerationType returns an Enumeration DataType with inline values.
func EnumerationType(values ...string) DataType {
	return DataType{Kind: KindEnumeration, EnumValues: values}
}

// EnumerationDictionaryType returns an Enumeration DataType whose values are
// resolved through the dictionary collaborator.
func EnumerationDictionaryType(dictionaryID string) DataType {
	return DataType{Kind: KindEnumeration, DictionaryID: dictionaryID}
}

// MultiEnumerationType returns a MultiEnumeration DataType.
func MultiEnumerationType(values ...string) DataType {
	return DataType{Kind: KindMultiEnumeration, EnumValues: values}
}

// FormulaType returns a Formula DataType with the given source expression.
func FormulaType(expression string) DataType {
	return DataType{Kind: KindFormula, Formula: expression}
}

// AutoNumberType returns an AutoNumber DataType with the given format.
func AutoNumberType(format string) DataType {
	return DataType{Kind: KindAutoNumber, AutoNumberFormat: format}
}

// TypeReferenceType returns a TypeReference DataType pointing at the Type
// identified by referencedTypeID.
func TypeReferenceType(referencedTypeID KID, cascadeDelete bool) DataType {
	return DataType{Kind: KindTypeReference, ReferencedTypeID: referencedTypeID, CascadeDelete: cascadeDelete}
}

// InverseCollectionType returns an InverseCollection DataType reversing the
// named TypeReference field on the child Type.
func InverseCollectionType(childTypeID KID, mirrorField string) DataType {
	return DataType{Kind: KindInverseCollection, ReferencedTypeID: childTypeID, MirrorField: mirrorField}
}

// AssociationType returns an Association DataType realised through the
// linking Type and its two TypeReference fields.
func AssociationType(linkingTypeID KID, selfField, foreignField string) DataType {
	return DataType{
		Kind:                KindAssociation,
		LinkingTypeID:       linkingTypeID,
		SelfLinkingField:    selfField,
		ForeignLinkingField: foreignField,
	}
}

// Validate enforces the variant constraints of the tagged union. It returns
// [ErrDataTypeDefinition] describing the first violation found.
func (dt DataType) Validate() error {
	switch dt.Kind {
	case KindText:
		if dt.Length <= 0 {
			return fmt.Errorf("%w: text length must be positive, got %d", ErrDataTypeDefinition, dt.Length)
		}
	case KindNumber:
		switch dt.NumberKind {
		case NumberInteger, NumberFloat:
			if dt.DecimalPlaces != 0 {
				return fmt.Errorf("%w: decimal places apply only to decimal numbers", ErrDataTypeDefinition)
			}
		case NumberDecimal:
			if dt.DecimalPlaces < 0 {
				return fmt.Errorf("%w: negative decimal places %d", ErrDataTypeDefinition, dt.DecimalPlaces)
			}
		default:
			return fmt.Errorf("%w: unknown number kind %d", ErrDataTypeDefinition, dt.NumberKind)
		}
	case KindCheckbox, KindDate, KindDateTime, KindEmail:
		// no payload
	case KindEnumeration:
		hasValues := len(dt.EnumValues) > 0
		hasDictionary := dt.DictionaryID != ""
		if hasValues == hasDictionary {
			return fmt.Errorf("%w: enumeration needs either inline values or a dictionary, never both or neither", ErrDataTypeDefinition)
		}
	case KindMultiEnumeration:
		if len(dt.EnumValues) == 0 {
			return fmt.Errorf("%w: multi-enumeration needs a non-empty value set", ErrDataTypeDefinition)
		}
	case KindFormula:
		if strings.TrimSpace(dt.Formula) == "" {
			return fmt.Errorf("%w: formula expression is empty", ErrDataTypeDefinition)
		}
	case KindAutoNumber:
		if _, _, err := ParseAutoNumberFormat(dt.AutoNumberFormat); err != nil {
			return err
		}
	case KindTypeReference:
		if dt.ReferencedTypeID.IsZero() {
			return fmt.Errorf("%w: type reference needs a referenced type", ErrDataTypeDefinition)
		}
	case KindInverseCollection:
		if dt.ReferencedTypeID.IsZero() {
			return fmt.Errorf("%w: inverse collection needs a child type", ErrDataTypeDefinition)
		}
		if dt.MirrorField == "" {
			return fmt.Errorf("%w: inverse collection needs the mirrored reference field", ErrDataTypeDefinition)
		}
	case KindAssociation:
		if dt.LinkingTypeID.IsZero() {
			return fmt.Errorf("%w: association needs a linking type", ErrDataTypeDefinition)
		}
		if dt.SelfLinkingField == "" || dt.ForeignLinkingField == "" {
			return fmt.Errorf("%w: association needs both linking fields", ErrDataTypeDefinition)
		}
		if dt.SelfLinkingField == dt.ForeignLinkingField {
			return fmt.Errorf("%w: association linking fields must differ", ErrDataTypeDefinition)
		}
	default:
		return fmt.Errorf("%w: unknown data kind %d", ErrDataTypeDefinition, dt.Kind)
	}

	return nil
}

// Equal reports whether two DataTypes describe the same variant with the
// same payload. Used when matching subquery projections against the outer
// field.
func (dt DataType) Equal(other DataType) bool {
	if dt.Kind != other.Kind {
		return false
	}
	switch dt.Kind {
	case KindNumber:
		return dt.NumberKind == other.NumberKind && dt.DecimalPlaces == other.DecimalPlaces
	case KindTypeReference, KindInverseCollection:
		return dt.ReferencedTypeID == other.ReferencedTypeID
	case KindAssociation:
		return dt.LinkingTypeID == other.LinkingTypeID
	default:
		return true
	}
}

// ParseAutoNumberFormat splits an AutoNumber format string into its literal
// prefix and zero-padding width. The format must match "<prefix>{0000}".
func ParseAutoNumberFormat(format string) (prefix string, width int, err error) {
	match := autoNumberFormatPattern.FindStringSubmatch(format)
	if match == nil {
		return "", 0, fmt.Errorf("%w: autonumber format %q does not match \"<prefix>{0000}\"", ErrDataTypeDefinition, format)
	}
	return match[1], len(match[2]), nil
}
