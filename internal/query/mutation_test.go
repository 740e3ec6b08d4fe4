package query

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metacore-io/metacore/models"
)

func invoiceType(t *testing.T) *models.Type {
	t.Helper()
	resolver := fixtureResolver(t)
	return resolver.byName["crm.invoice"]
}

func TestInsertSQL(t *testing.T) {
	typ := invoiceType(t)

	rec := models.NewRecord("crm.invoice").
		Set("amount", big.NewRat(25, 2)).
		Set("status", "draft").
		Set("customer", models.KID("c3m0000000001"))

	sql, args, err := InsertSQL(typ, rec)
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO obj_b2k (auth_checked,f_amount,f_status,f_customer) "+
			"VALUES ($1,$2,$3,$4) RETURNING kid",
		sql)
	assert.Equal(t, []any{"y", "12.50", "draft", "c3m0000000001"}, args)
}

func TestInsertSQL_SkipsUnsetAndColumnless(t *testing.T) {
	typ := invoiceType(t)

	// total is a formula, lines a collection; neither may produce a column
	rec := models.NewRecord("crm.invoice").Set("status", "sent")

	sql, args, err := InsertSQL(typ, rec)
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO obj_b2k (auth_checked,f_status) VALUES ($1,$2) RETURNING kid", sql)
	assert.Equal(t, []any{"y", "sent"}, args)
}

func TestUpdateSQL(t *testing.T) {
	typ := invoiceType(t)

	rec := models.NewRecord("crm.invoice").
		Set("status", "paid").
		Set("quantity", models.Null)
	rec.SetKID(models.KID("b2k0000000007"))

	sql, args, err := UpdateSQL(typ, rec)
	require.NoError(t, err)

	assert.Equal(t,
		"UPDATE obj_b2k SET auth_checked = $1, f_quantity = $2, f_status = $3 WHERE kid = $4",
		sql)
	assert.Equal(t, []any{"y", nil, "paid", "b2k0000000007"}, args)
}

func TestUpdateSQL_MissingIdentifier(t *testing.T) {
	typ := invoiceType(t)

	_, _, err := UpdateSQL(typ, models.NewRecord("crm.invoice").Set("status", "paid"))

	assert.ErrorIs(t, err, models.ErrUninitializedField)
}

func TestDeleteStatements(t *testing.T) {
	typ := invoiceType(t)
	id := models.KID("b2k0000000007")

	sql, args, err := AuthorizeDeleteSQL(typ, id)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE obj_b2k SET auth_checked = $1 WHERE kid = $2", sql)
	assert.Equal(t, []any{"y", "b2k0000000007"}, args)

	sql, args, err = DeleteSQL(typ, id)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM obj_b2k WHERE kid = $1", sql)
	assert.Equal(t, []any{"b2k0000000007"}, args)
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name  string
		field models.Field
		value any
		want  any
	}{
		{
			name:  "explicit null",
			field: models.Field{APIName: "status", DataType: models.EnumerationType("a")},
			value: nil,
			want:  nil,
		},
		{
			name:  "date from time",
			field: models.Field{APIName: "due", DataType: models.DateType()},
			value: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
			want:  "2026-03-14",
		},
		{
			name:  "datetime from time",
			field: models.Field{APIName: "at", DataType: models.DateTimeType()},
			value: time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC),
			want:  "2026-03-14 10:30:45",
		},
		{
			name:  "decimal keeps declared places",
			field: models.Field{APIName: "amount", DataType: models.NumberType(models.NumberDecimal, 3)},
			value: big.NewRat(1, 3),
			want:  "0.333",
		},
		{
			name:  "integer passes through",
			field: models.Field{APIName: "quantity", DataType: models.NumberType(models.NumberInteger, 0)},
			value: int64(7),
			want:  int64(7),
		},
		{
			name:  "multi enumeration array literal",
			field: models.Field{APIName: "colors", DataType: models.MultiEnumerationType("red", "green")},
			value: []string{"red", "green"},
			want:  `{"red","green"}`,
		},
		{
			name:  "reference from nested record",
			field: models.Field{APIName: "customer", DataType: models.TypeReferenceType(customerTypeID, false)},
			value: func() any {
				nested := models.NewRecord("crm.customer")
				nested.SetKID(models.KID("c3m0000000001"))
				return nested
			}(),
			want: "c3m0000000001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeValue(tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeValue_Unsupported(t *testing.T) {
	field := models.Field{APIName: "due", DataType: models.DateType()}

	_, err := encodeValue(field, 42)

	assert.ErrorIs(t, err, models.ErrDataTypeDefinition)
}

func TestEncodeTextArray(t *testing.T) {
	assert.Equal(t, "{}", EncodeTextArray(nil))
	assert.Equal(t, `{"a"}`, EncodeTextArray([]string{"a"}))
	assert.Equal(t, `{"a","b \"c\""}`, EncodeTextArray([]string{"a", `b "c"`}))
}
