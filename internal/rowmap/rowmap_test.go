package rowmap

import (
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metacore-io/metacore/internal/query"
	"github.com/metacore-io/metacore/models"
)

const (
	invoiceTypeID  = models.KID("0010000000b01")
	customerTypeID = models.KID("0010000000b02")
	lineTypeID     = models.KID("0010000000b03")
	tagTypeID      = models.KID("0010000000b04")
	linkTypeID     = models.KID("0010000000b05")
)

type mapResolver struct {
	byName map[string]*models.Type
	byID   map[models.KID]*models.Type
}

func (r *mapResolver) TypeByName(name string) (*models.Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func (r *mapResolver) TypeByID(id models.KID) (*models.Type, bool) {
	t, ok := r.byID[id]
	return t, ok
}

func fixture(t *testing.T) (*mapResolver, *models.Type) {
	t.Helper()

	r := &mapResolver{byName: map[string]*models.Type{}, byID: map[models.KID]*models.Type{}}
	register := func(typ *models.Type, fields ...models.Field) *models.Type {
		require.NoError(t, typ.AddField(models.Field{APIName: models.FieldID, DataType: models.TextType(13), AutoSet: true}))
		for _, f := range fields {
			require.NoError(t, typ.AddField(f))
		}
		r.byName[typ.QualifiedName()] = typ
		r.byID[typ.ID] = typ
		return typ
	}

	register(&models.Type{ID: customerTypeID, Package: "crm", APIName: "customer", Prefix: "c3m", TableName: "obj_c3m"},
		models.Field{APIName: "name", DataType: models.TextType(120)},
	)
	register(&models.Type{ID: lineTypeID, Package: "crm", APIName: "invoiceLine", Prefix: "d4n", TableName: "obj_d4n"},
		models.Field{APIName: "invoice", DataType: models.TypeReferenceType(invoiceTypeID, true)},
		models.Field{APIName: "amount", DataType: models.NumberType(models.NumberInteger, 0)},
	)
	register(&models.Type{ID: tagTypeID, Package: "crm", APIName: "tag", Prefix: "e5p", TableName: "obj_e5p"},
		models.Field{APIName: "name", DataType: models.TextType(60)},
	)
	register(&models.Type{ID: linkTypeID, Package: "crm", APIName: "invoiceTag", Prefix: "f6q", TableName: "obj_f6q"},
		models.Field{APIName: "invoice", DataType: models.TypeReferenceType(invoiceTypeID, true), Required: true},
		models.Field{APIName: "tag", DataType: models.TypeReferenceType(tagTypeID, true), Required: true},
	)
	invoice := register(&models.Type{ID: invoiceTypeID, Package: "crm", APIName: "invoice", Prefix: "b2k", TableName: "obj_b2k"},
		models.Field{APIName: "amount", DataType: models.NumberType(models.NumberDecimal, 2)},
		models.Field{APIName: "status", DataType: models.EnumerationType("draft", "sent", "paid")},
		models.Field{APIName: "due", DataType: models.DateType()},
		models.Field{APIName: "customer", DataType: models.TypeReferenceType(customerTypeID, false)},
		models.Field{APIName: "lines", DataType: models.InverseCollectionType(lineTypeID, "invoice")},
		models.Field{APIName: "tags", DataType: models.AssociationType(linkTypeID, "invoice", "tag")},
	)

	return r, invoice
}

func field(t *testing.T, typ *models.Type, name string) models.Field {
	t.Helper()
	f, ok := typ.Field(name)
	require.True(t, ok, "field %q", name)
	return f
}

// decode runs the mapper over mock rows served through a real *sql.Rows.
func decode(t *testing.T, sel *query.Select, rows *sqlmock.Rows) []*models.Record {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	sqlRows, err := db.Query("SELECT 1")
	require.NoError(t, err)
	defer sqlRows.Close()

	resolver, _ := fixture(t)
	records, err := NewMapper(resolver).Records(sel, sqlRows)
	require.NoError(t, err)
	return records
}

func TestRecords_Scalars(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "status", Field: field(t, invoice, "status"), ValueIndex: 1, CountIndex: -1},
			{Property: "amount", Field: field(t, invoice, "amount"), ValueIndex: 2, CountIndex: -1},
			{Property: "due", Field: field(t, invoice, "due"), ValueIndex: 3, CountIndex: -1},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "status", "amount", "due"}).
		AddRow("b2k0000000001", "paid", "12.50", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	records := decode(t, sel, rows)
	require.Len(t, records, 1)
	rec := records[0]

	id, err := rec.KID()
	require.NoError(t, err)
	assert.Equal(t, models.KID("b2k0000000001"), id)

	status, err := rec.Get("status")
	require.NoError(t, err)
	assert.Equal(t, "paid", status)

	amount, err := rec.Get("amount")
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewRat(25, 2).Cmp(amount.(*big.Rat)))

	due, err := rec.Get("due")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), due)
}

func TestRecords_NullAndUnsetDiffer(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "status", Field: field(t, invoice, "status"), ValueIndex: 1, CountIndex: -1},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "status"}).AddRow("b2k0000000001", nil)

	rec := decode(t, sel, rows)[0]

	assert.True(t, rec.IsNull("status"))

	// amount was never projected, so reading it reports uninitialized
	_, err := rec.Get("amount")
	assert.ErrorIs(t, err, models.ErrUninitializedField)
}

func TestRecords_NestedReferenceProperty(t *testing.T) {
	_, invoice := fixture(t)
	customerName := models.Field{APIName: "name", DataType: models.TextType(120)}

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "customer.name", Field: customerName, ValueIndex: 1, CountIndex: -1},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "name"}).AddRow("b2k0000000001", "ACME")

	rec := decode(t, sel, rows)[0]

	name, err := rec.Get("customer.name")
	require.NoError(t, err)
	assert.Equal(t, "ACME", name)

	nested, err := rec.Get("customer")
	require.NoError(t, err)
	assert.Equal(t, "crm.customer", nested.(*models.Record).TypeName())
}

func TestRecords_TerminalReferenceBecomesStub(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "customer", Field: field(t, invoice, "customer"), ValueIndex: 1, CountIndex: -1},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "customer"}).AddRow("b2k0000000001", "c3m0000000009")

	rec := decode(t, sel, rows)[0]

	nested, err := rec.Get("customer")
	require.NoError(t, err)
	stub := nested.(*models.Record)
	id, err := stub.KID()
	require.NoError(t, err)
	assert.Equal(t, models.KID("c3m0000000009"), id)
}

func TestRecords_CollectionUnfolded(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "lines.amount", Field: field(t, invoice, "lines"), Collection: true, ValueIndex: 1, CountIndex: 2},
		},
	}

	// two tags in the same statement would duplicate each line twice; the
	// distinct count restores the real child sequence
	rows := sqlmock.NewRows([]string{"kid", "amounts", "count"}).
		AddRow("b2k0000000001", []byte("{10,10,20,20}"), int64(2))

	rec := decode(t, sel, rows)[0]

	value, err := rec.Get("lines")
	require.NoError(t, err)
	children := value.([]*models.Record)
	require.Len(t, children, 2)

	first, err := children[0].Get("amount")
	require.NoError(t, err)
	assert.Equal(t, int64(10), first)

	second, err := children[1].Get("amount")
	require.NoError(t, err)
	assert.Equal(t, int64(20), second)
}

func TestRecords_EmptyCollectionMaterialized(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "lines", Field: field(t, invoice, "lines"), Collection: true, ValueIndex: 1, CountIndex: 2},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "kids", "count"}).
		AddRow("b2k0000000001", []byte("{NULL}"), int64(0))

	rec := decode(t, sel, rows)[0]

	value, err := rec.Get("lines")
	require.NoError(t, err)
	assert.Empty(t, value.([]*models.Record))
}

func TestRecords_AssociationChildren(t *testing.T) {
	_, invoice := fixture(t)

	sel := &query.Select{
		Type: invoice,
		Projections: []query.Projection{
			{Property: "id", Field: field(t, invoice, "id"), ValueIndex: 0, CountIndex: -1},
			{Property: "tags", Field: field(t, invoice, "tags"), Collection: true, ValueIndex: 1, CountIndex: 2},
		},
	}

	rows := sqlmock.NewRows([]string{"kid", "kids", "count"}).
		AddRow("b2k0000000001", []byte("{e5p0000000001,e5p0000000002}"), int64(2))

	rec := decode(t, sel, rows)[0]

	value, err := rec.Get("tags")
	require.NoError(t, err)
	children := value.([]*models.Record)
	require.Len(t, children, 2)
	assert.Equal(t, "crm.tag", children[0].TypeName())

	id, err := children[1].KID()
	require.NoError(t, err)
	assert.Equal(t, models.KID("e5p0000000002"), id)
}

func TestParseTextArray(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []*string
	}{
		{name: "empty", in: "{}", want: nil},
		{name: "plain", in: "{a,b}", want: []*string{ptr("a"), ptr("b")}},
		{name: "quoted with comma", in: `{"a,b","c"}`, want: []*string{ptr("a,b"), ptr("c")}},
		{name: "escaped quote", in: `{"a \"b\""}`, want: []*string{ptr(`a "b"`)}},
		{name: "null element", in: "{a,NULL}", want: []*string{ptr("a"), nil}},
		{name: "quoted NULL is literal", in: `{"NULL"}`, want: []*string{ptr("NULL")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTextArray(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTextArray_Malformed(t *testing.T) {
	_, err := parseTextArray("not an array")
	assert.ErrorIs(t, err, ErrRowDecoding)

	_, err = parseTextArray(`{"unterminated}`)
	assert.ErrorIs(t, err, ErrRowDecoding)
}

func ptr(s string) *string { return &s }

func TestDecodeScalar(t *testing.T) {
	checkbox := models.Field{APIName: "done", DataType: models.CheckboxType()}
	got, err := decodeScalar(checkbox, true)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = decodeScalar(checkbox, "t")
	require.NoError(t, err)
	assert.Equal(t, true, got)

	multi := models.Field{APIName: "colors", DataType: models.MultiEnumerationType("red", "green")}
	got, err = decodeScalar(multi, []byte(`{"red","green"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green"}, got)

	date := models.Field{APIName: "due", DataType: models.DateType()}
	got, err = decodeScalar(date, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)

	_, err = decodeScalar(date, int64(1))
	assert.ErrorIs(t, err, ErrRowDecoding)
}
