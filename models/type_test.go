package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceType(t *testing.T) *Type {
	t.Helper()

	typeID, err := NewKID(KeyPrefixType, 10)
	require.NoError(t, err)

	return &Type{
		ID:        typeID,
		Package:   "app",
		APIName:   "Invoice",
		Label:     "Invoice",
		Prefix:    "b00",
		TableName: "obj_b00",
	}
}

func TestType_AddField_UniqueAPIName(t *testing.T) {
	typ := newInvoiceType(t)

	require.NoError(t, typ.AddField(Field{APIName: "amount", DataType: NumberType(NumberInteger, 0)}))

	err := typ.AddField(Field{APIName: "amount", DataType: TextType(50)})
	require.ErrorIs(t, err, ErrDuplicateField)
	assert.Equal(t, 1, typ.FieldCount())
}

func TestType_AddField_SingleAutoNumber(t *testing.T) {
	typ := newInvoiceType(t)

	require.NoError(t, typ.AddField(Field{
		APIName:  "number",
		Required: true,
		DataType: AutoNumberType("INV-{0000}"),
	}))

	err := typ.AddField(Field{
		APIName:  "secondNumber",
		Required: true,
		DataType: AutoNumberType("X{00}"),
	})
	assert.ErrorIs(t, err, ErrDuplicateAutoNumber)
}

func TestType_FieldLookups(t *testing.T) {
	typ := newInvoiceType(t)

	fieldID, err := NewKID(KeyPrefixField, 7)
	require.NoError(t, err)

	require.NoError(t, typ.AddField(Field{ID: fieldID, APIName: "amount", DataType: NumberType(NumberInteger, 0)}))

	byName, ok := typ.Field("amount")
	require.True(t, ok)
	assert.Equal(t, fieldID, byName.ID)

	byID, ok := typ.FieldByID(fieldID)
	require.True(t, ok)
	assert.Equal(t, "amount", byID.APIName)

	_, ok = typ.Field("missing")
	assert.False(t, ok)
}

func TestType_RemoveField_Reindexes(t *testing.T) {
	typ := newInvoiceType(t)

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, typ.AddField(Field{APIName: name, DataType: TextType(10)}))
	}

	require.True(t, typ.RemoveField("second"))
	assert.False(t, typ.RemoveField("second"))

	third, ok := typ.Field("third")
	require.True(t, ok)
	assert.Equal(t, "third", third.APIName)
	assert.Equal(t, 2, typ.FieldCount())
}

func TestType_CloneIsIndependent(t *testing.T) {
	typ := newInvoiceType(t)
	require.NoError(t, typ.AddField(Field{APIName: "amount", DataType: NumberType(NumberInteger, 0)}))

	clone := typ.Clone()
	require.NoError(t, clone.AddField(Field{APIName: "comment", DataType: TextType(200)}))
	require.NoError(t, clone.ReplaceField(Field{APIName: "amount", DataType: NumberType(NumberFloat, 0)}))

	assert.Equal(t, 1, typ.FieldCount())
	original, ok := typ.Field("amount")
	require.True(t, ok)
	assert.Equal(t, NumberInteger, original.DataType.NumberKind)
}

func TestField_ColumnDerivation(t *testing.T) {
	tests := []struct {
		apiName string
		column  string
	}{
		{apiName: FieldID, column: "kid"},
		{apiName: FieldCreatedDate, column: "created_date"},
		{apiName: FieldAccessType, column: "access_type"},
		{apiName: "amount", column: "f_amount"},
		{apiName: "dueDate", column: "f_due_date"},
		{apiName: "shippingAddressLine", column: "f_shipping_address_line"},
	}

	for _, tt := range tests {
		f := Field{APIName: tt.apiName}
		assert.Equal(t, tt.column, f.Column(), "api name %q", tt.apiName)
	}
}
