package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataType_Validate(t *testing.T) {
	refID, err := NewKID(KeyPrefixType, 5)
	require.NoError(t, err)

	tests := []struct {
		name    string
		dt      DataType
		wantErr bool
	}{
		{name: "text ok", dt: TextType(255)},
		{name: "text zero length", dt: TextType(0), wantErr: true},
		{name: "integer ok", dt: NumberType(NumberInteger, 0)},
		{name: "integer with places", dt: NumberType(NumberInteger, 2), wantErr: true},
		{name: "decimal ok", dt: NumberType(NumberDecimal, 2)},
		{name: "decimal negative places", dt: NumberType(NumberDecimal, -1), wantErr: true},
		{name: "unknown number kind", dt: DataType{Kind: KindNumber}, wantErr: true},
		{name: "checkbox ok", dt: CheckboxType()},
		{name: "enum inline ok", dt: EnumerationType("draft", "sent")},
		{name: "enum dictionary ok", dt: EnumerationDictionaryType("countries")},
		{name: "enum neither", dt: DataType{Kind: KindEnumeration}, wantErr: true},
		{
			name:    "enum both",
			dt:      DataType{Kind: KindEnumeration, EnumValues: []string{"a"}, DictionaryID: "d"},
			wantErr: true,
		},
		{name: "multi-enum ok", dt: MultiEnumerationType("red", "green")},
		{name: "multi-enum empty", dt: DataType{Kind: KindMultiEnumeration}, wantErr: true},
		{name: "formula ok", dt: FormulaType("amount * 2")},
		{name: "formula blank", dt: FormulaType("   "), wantErr: true},
		{name: "autonumber ok", dt: AutoNumberType("INV-{0000}")},
		{name: "autonumber bare braces", dt: AutoNumberType("INV-{}"), wantErr: true},
		{name: "autonumber no braces", dt: AutoNumberType("INV-0000"), wantErr: true},
		{name: "autonumber non-zero padding", dt: AutoNumberType("INV-{1234}"), wantErr: true},
		{name: "type reference ok", dt: TypeReferenceType(refID, true)},
		{name: "type reference empty", dt: TypeReferenceType("", false), wantErr: true},
		{name: "inverse collection ok", dt: InverseCollectionType(refID, "invoice")},
		{name: "inverse collection no mirror", dt: InverseCollectionType(refID, ""), wantErr: true},
		{name: "association ok", dt: AssociationType(refID, "left", "right")},
		{name: "association same fields", dt: AssociationType(refID, "side", "side"), wantErr: true},
		{name: "association missing field", dt: AssociationType(refID, "left", ""), wantErr: true},
		{name: "unknown kind", dt: DataType{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dt.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDataTypeDefinition)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseAutoNumberFormat(t *testing.T) {
	prefix, width, err := ParseAutoNumberFormat("INV-{0000}")
	require.NoError(t, err)
	assert.Equal(t, "INV-", prefix)
	assert.Equal(t, 4, width)

	prefix, width, err = ParseAutoNumberFormat("{00}")
	require.NoError(t, err)
	assert.Equal(t, "", prefix)
	assert.Equal(t, 2, width)
}

func TestDataKind_Classification(t *testing.T) {
	assert.True(t, KindInverseCollection.IsCollection())
	assert.True(t, KindAssociation.IsCollection())
	assert.False(t, KindTypeReference.IsCollection())

	assert.False(t, KindFormula.HasColumn())
	assert.False(t, KindAssociation.HasColumn())
	assert.True(t, KindText.HasColumn())
	assert.True(t, KindTypeReference.HasColumn())
}
