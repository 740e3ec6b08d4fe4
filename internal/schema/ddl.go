package schema

import (
	"fmt"
	"strings"

	"github.com/metacore-io/metacore/models"
)

// DDL statements cannot take bind parameters, so identifiers are
// interpolated. Every identifier reaching this file is engine-derived: table
// names and sequence names come from base-31 key prefixes, column names from
// api names validated against the catalog naming pattern. The builders below
// never receive user-typed text.

func recordSequenceName(prefix models.KeyPrefix) string {
	return "seq_" + string(prefix)
}

func fieldSequenceName(prefix models.KeyPrefix, f models.Field) string {
	return "seq_" + string(prefix) + "_" + f.Column()
}

func foreignKeyName(table, column string) string {
	return "fk_" + table + "_" + column
}

func createSequenceDDL(name string) string {
	return fmt.Sprintf("CREATE SEQUENCE %s", name)
}

func dropSequenceDDL(name string) string {
	return fmt.Sprintf("DROP SEQUENCE IF EXISTS %s", name)
}

// createTableDDL renders the base table of a Type. Only engine-owned columns
// appear here: the surrogate key, the public identifier defaulting through
// kid_encode, and the authorization escape-hatch flag checked by the
// permission triggers.
func createTableDDL(t *models.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.TableName)
	b.WriteString("    n_id bigserial PRIMARY KEY,\n")
	fmt.Fprintf(&b, "    kid char(13) NOT NULL UNIQUE DEFAULT kid_encode('%s', nextval('%s')),\n",
		string(t.Prefix), recordSequenceName(t.Prefix))
	b.WriteString("    auth_checked char(1) NOT NULL DEFAULT 'n'\n")
	b.WriteString(")")
	return b.String()
}

func dropTableDDL(table string) string {
	return fmt.Sprintf("DROP TABLE %s", table)
}

func createEditTriggerDDL(table string) string {
	return fmt.Sprintf(
		"CREATE TRIGGER check_edit_permissions_%[1]s BEFORE INSERT OR UPDATE ON %[1]s FOR EACH ROW EXECUTE FUNCTION check_edit_permissions()",
		table)
}

func createDeleteTriggerDDL(table string) string {
	return fmt.Sprintf(
		"CREATE TRIGGER check_delete_permissions_%[1]s BEFORE DELETE ON %[1]s FOR EACH ROW EXECUTE FUNCTION check_delete_permissions()",
		table)
}

func addColumnDDL(table, column, columnType string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, columnType)
}

func alterColumnDDL(table, column, columnType string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", table, column, columnType)
}

func dropColumnDDL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, column)
}

func addForeignKeyDDL(table, column, referencedTable string, cascade bool) string {
	action := "SET NULL"
	if cascade {
		action = "CASCADE"
	}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (kid) ON DELETE %s",
		table, foreignKeyName(table, column), column, referencedTable, action)
}

func dropForeignKeyDDL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", table, foreignKeyName(table, column))
}

// columnSQLType maps a DataType to the SQL type of its backing column.
// Formula and collection kinds have no column and never reach here through
// the Synchronizer.
func columnSQLType(dt models.DataType) (string, error) {
	switch dt.Kind {
	case models.KindText:
		return fmt.Sprintf("varchar(%d)", dt.Length), nil
	case models.KindNumber:
		switch dt.NumberKind {
		case models.NumberInteger:
			return "bigint", nil
		case models.NumberDecimal:
			return fmt.Sprintf("numeric(38,%d)", dt.DecimalPlaces), nil
		case models.NumberFloat:
			return "double precision", nil
		}
		return "", fmt.Errorf("%w: no column type for number kind %d", models.ErrDataTypeDefinition, dt.NumberKind)
	case models.KindCheckbox:
		return "boolean", nil
	case models.KindDate:
		return "date", nil
	case models.KindDateTime:
		return "timestamp", nil
	case models.KindEmail:
		return "varchar(254)", nil
	case models.KindEnumeration:
		return "text", nil
	case models.KindMultiEnumeration:
		return "text[]", nil
	case models.KindAutoNumber:
		return "text", nil
	case models.KindTypeReference:
		return "char(13)", nil
	}
	return "", fmt.Errorf("%w: no column type for kind %s", models.ErrDataTypeDefinition, dt.Kind)
}
