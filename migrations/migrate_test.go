package migrations

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose drives the connection itself; no expectations to set

	err = Migrate(db)
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

// The delete pipeline arms the escape hatch with an UPDATE that changes only
// auth_checked and then issues the DELETE in the same transaction. The edit
// trigger runs on that arming UPDATE too, so it must keep the stored 'y' in
// exactly that case; resetting it there would make the delete trigger read
// 'n' and reject every delete.
func TestPermissionTriggers_ArmingUpdateKeepsFlag(t *testing.T) {
	raw, err := embedMigrations.ReadFile("00003_permission_triggers.sql")
	if err != nil {
		t.Fatalf("failed to read embedded migration: %v", err)
	}
	src := string(raw)

	editBody := src[strings.Index(src, "check_edit_permissions"):strings.Index(src, "check_delete_permissions")]

	guard := strings.Index(editBody, "to_jsonb(NEW) - 'auth_checked' = to_jsonb(OLD) - 'auth_checked'")
	if guard < 0 {
		t.Fatal("edit trigger lacks the arming-update guard comparing all columns except auth_checked")
	}
	reset := strings.Index(editBody, "NEW.auth_checked := 'n'")
	if reset < 0 {
		t.Fatal("edit trigger no longer consumes the flag on ordinary updates")
	}
	if guard > reset {
		t.Error("arming-update guard must run before the flag is reset")
	}
	if !strings.Contains(editBody, "TG_OP = 'UPDATE'") {
		t.Error("arming-update guard must not compare OLD on inserts")
	}

	deleteBody := src[strings.Index(src, "check_delete_permissions"):]
	if !strings.Contains(deleteBody, "OLD.auth_checked = 'y'") {
		t.Error("delete trigger must read the stored flag the arming update left behind")
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db)
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !strings.Contains(err.Error(), "db is nil") {
		t.Errorf("expected 'db is nil' error, got: %v", err)
	}
}
