package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_UnsetVersusNull(t *testing.T) {
	rec := NewRecord("app.Invoice")

	// never populated
	_, err := rec.Get("amount")
	require.ErrorIs(t, err, ErrUninitializedField)
	assert.False(t, rec.Has("amount"))
	assert.False(t, rec.IsNull("amount"))

	// explicit null reads back without error
	rec.SetNull("amount")
	value, err := rec.Get("amount")
	require.NoError(t, err)
	assert.Nil(t, value)
	assert.True(t, rec.Has("amount"))
	assert.True(t, rec.IsNull("amount"))

	// a real value replaces the null
	rec.Set("amount", 100)
	value, err = rec.Get("amount")
	require.NoError(t, err)
	assert.Equal(t, 100, value)
	assert.False(t, rec.IsNull("amount"))

	// the Null sentinel behaves like SetNull
	rec.Set("amount", Null)
	assert.True(t, rec.IsNull("amount"))

	// unsetting returns the field to the uninitialized state
	rec.Unset("amount")
	_, err = rec.Get("amount")
	assert.ErrorIs(t, err, ErrUninitializedField)
}

func TestRecord_PathAccess(t *testing.T) {
	city := NewRecord("app.City").Set("name", "Riga")
	address := NewRecord("app.Address").Set("city", city)
	customer := NewRecord("app.Customer").Set("address", address)
	invoice := NewRecord("app.Invoice").Set("customer", customer)

	value, err := invoice.Get("customer.address.city.name")
	require.NoError(t, err)
	assert.Equal(t, "Riga", value)

	// unset leaf inside a populated chain
	_, err = invoice.Get("customer.address.street")
	assert.ErrorIs(t, err, ErrUninitializedField)

	// intermediate segment that is not a record
	invoice.Set("number", "INV-001")
	_, err = invoice.Get("number.anything")
	assert.ErrorIs(t, err, ErrNoSuchField)
}

func TestRecord_KIDAccess(t *testing.T) {
	rec := NewRecord("app.Customer")

	_, err := rec.KID()
	require.ErrorIs(t, err, ErrUninitializedField)

	id, err := NewKID(KeyPrefixUser, 42)
	require.NoError(t, err)

	rec.SetKID(id)
	got, err := rec.KID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// id stored as a raw string is parsed and validated
	rec.Set(FieldID, string(id))
	got, err = rec.KID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	rec.Set(FieldID, "garbage")
	_, err = rec.KID()
	assert.ErrorIs(t, err, ErrKIDFormat)
}

func TestRecord_CloneIsDeep(t *testing.T) {
	nested := NewRecord("app.Customer").Set("name", "ACME")
	rec := NewRecord("app.Invoice").
		Set("customer", nested).
		Set("tags", []string{"q1", "q2"})

	clone := rec.Clone()

	nestedClone, err := clone.Get("customer")
	require.NoError(t, err)
	nestedClone.(*Record).Set("name", "Globex")

	tagsClone, err := clone.Get("tags")
	require.NoError(t, err)
	tagsClone.([]string)[0] = "changed"

	originalNested, err := rec.Get("customer")
	require.NoError(t, err)
	name, err := originalNested.(*Record).Get("name")
	require.NoError(t, err)
	assert.Equal(t, "ACME", name)

	originalTags, err := rec.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, originalTags)
}
