package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

func newTestType(t *testing.T) *models.Type {
	t.Helper()

	typ := &models.Type{
		ID:        models.KID("0010000000001"),
		Package:   "crm",
		APIName:   "invoice",
		Prefix:    models.KeyPrefix("b2k"),
		TableName: "obj_b2k",
	}
	return typ
}

func newMock(t *testing.T) (*Synchronizer, store.DBTX, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSynchronizer(logger.Nop()), db, mock
}

func TestCreateTable(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)

	mock.ExpectExec("CREATE SEQUENCE seq_b2k").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE obj_b2k (\n" +
		"    n_id bigserial PRIMARY KEY,\n" +
		"    kid char(13) NOT NULL UNIQUE DEFAULT kid_encode('b2k', nextval('seq_b2k')),\n" +
		"    auth_checked char(1) NOT NULL DEFAULT 'n'\n" +
		")").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TRIGGER check_edit_permissions_obj_b2k BEFORE INSERT OR UPDATE ON obj_b2k FOR EACH ROW EXECUTE FUNCTION check_edit_permissions()").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TRIGGER check_delete_permissions_obj_b2k BEFORE DELETE ON obj_b2k FOR EACH ROW EXECUTE FUNCTION check_delete_permissions()").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.CreateTable(context.Background(), db, typ)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTable_DDLFailure(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)

	mock.ExpectExec("CREATE SEQUENCE seq_b2k").
		WillReturnError(errors.New("sequence exists"))

	err := sync.CreateTable(context.Background(), db, typ)

	assert.ErrorIs(t, err, store.ErrExecutingDDL)
}

func TestDropTable_WithAutoNumberSequence(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	require.NoError(t, typ.AddField(models.Field{
		ID:       models.KID("0020000000001"),
		APIName:  "invoiceNo",
		DataType: models.AutoNumberType("INV-{0000}"),
		Required: true,
		AutoSet:  true,
	}))

	mock.ExpectExec("DROP TABLE obj_b2k").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP SEQUENCE IF EXISTS seq_b2k_f_invoice_no").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP SEQUENCE IF EXISTS seq_b2k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.DropTable(context.Background(), db, typ)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumn(t *testing.T) {
	tests := []struct {
		name     string
		dataType models.DataType
		wantDDL  string
	}{
		{
			name:     "text",
			dataType: models.TextType(120),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city varchar(120)",
		},
		{
			name:     "integer number",
			dataType: models.NumberType(models.NumberInteger, 0),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city bigint",
		},
		{
			name:     "decimal number",
			dataType: models.NumberType(models.NumberDecimal, 2),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city numeric(38,2)",
		},
		{
			name:     "float number",
			dataType: models.NumberType(models.NumberFloat, 0),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city double precision",
		},
		{
			name:     "checkbox",
			dataType: models.CheckboxType(),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city boolean",
		},
		{
			name:     "date",
			dataType: models.DateType(),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city date",
		},
		{
			name:     "datetime",
			dataType: models.DateTimeType(),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city timestamp",
		},
		{
			name:     "email",
			dataType: models.EmailType(),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city varchar(254)",
		},
		{
			name:     "enumeration",
			dataType: models.EnumerationType("draft", "sent"),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city text",
		},
		{
			name:     "multi enumeration",
			dataType: models.MultiEnumerationType("red", "green"),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city text[]",
		},
		{
			name:     "type reference",
			dataType: models.TypeReferenceType(models.KID("0010000000002"), false),
			wantDDL:  "ALTER TABLE obj_b2k ADD COLUMN f_billing_city char(13)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync, db, mock := newMock(t)
			typ := newTestType(t)
			field := models.Field{APIName: "billingCity", DataType: tt.dataType}

			mock.ExpectExec(tt.wantDDL).WillReturnResult(sqlmock.NewResult(0, 0))

			err := sync.AddColumn(context.Background(), db, typ, field)

			assert.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAddColumn_AutoNumberCreatesSequence(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	field := models.Field{APIName: "invoiceNo", DataType: models.AutoNumberType("INV-{0000}")}

	mock.ExpectExec("ALTER TABLE obj_b2k ADD COLUMN f_invoice_no text").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE SEQUENCE seq_b2k_f_invoice_no").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.AddColumn(context.Background(), db, typ, field)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumn_SkipsColumnlessKinds(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)

	fields := []models.Field{
		{APIName: "total", DataType: models.FormulaType("amount * quantity")},
		{APIName: "lines", DataType: models.InverseCollectionType(models.KID("0010000000003"), "invoice")},
		{APIName: "tags", DataType: models.AssociationType(models.KID("0010000000004"), "invoice", "tag")},
		{APIName: models.FieldID, DataType: models.TextType(13)},
	}
	for _, f := range fields {
		assert.NoError(t, sync.AddColumn(context.Background(), db, typ, f))
	}

	// no Exec expectations were registered, so any statement would fail the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlterColumn(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	field := models.Field{APIName: "billingCity", DataType: models.TextType(255)}

	mock.ExpectExec("ALTER TABLE obj_b2k ALTER COLUMN f_billing_city TYPE varchar(255)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.AlterColumn(context.Background(), db, typ, field)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDropColumn(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	field := models.Field{APIName: "billingCity", DataType: models.TextType(120)}

	mock.ExpectExec("ALTER TABLE obj_b2k DROP COLUMN f_billing_city").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.DropColumn(context.Background(), db, typ, field)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForeignKeys(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	field := models.Field{APIName: "customer", DataType: models.TypeReferenceType(models.KID("0010000000002"), true)}

	mock.ExpectExec("ALTER TABLE obj_b2k ADD CONSTRAINT fk_obj_b2k_f_customer FOREIGN KEY (f_customer) REFERENCES obj_c3m (kid) ON DELETE CASCADE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE obj_b2k DROP CONSTRAINT fk_obj_b2k_f_customer").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, sync.AddForeignKey(context.Background(), db, typ, field, "obj_c3m", true))
	require.NoError(t, sync.DropForeignKey(context.Background(), db, typ, field))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddForeignKey_SetNull(t *testing.T) {
	sync, db, mock := newMock(t)
	typ := newTestType(t)
	field := models.Field{APIName: "customer", DataType: models.TypeReferenceType(models.KID("0010000000002"), false)}

	mock.ExpectExec("ALTER TABLE obj_b2k ADD CONSTRAINT fk_obj_b2k_f_customer FOREIGN KEY (f_customer) REFERENCES obj_c3m (kid) ON DELETE SET NULL").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sync.AddForeignKey(context.Background(), db, typ, field, "obj_c3m", false)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
