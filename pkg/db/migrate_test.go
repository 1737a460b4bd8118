package db

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// checkTableExists is a test helper to verify if a table exists in the database.
func checkTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	query := fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s';", tableName)
	var name string
	err := db.QueryRow(query).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			t.Errorf("Table '%s' does not exist, but it should.", tableName)
			return
		}
		t.Fatalf("Error checking if table '%s' exists: %v", tableName, err)
	}
	if name != tableName {
		t.Errorf("Table check query returned '%s' but expected '%s'", name, tableName)
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBConnection_InvalidSyncPragma(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "SOMETIMES")
	if err == nil {
		t.Fatal("OpenDBConnection should reject an unknown sync pragma")
	}
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	db := openMemoryDB(t)

	err := UpgradeDB(db, ":memory:", TargetSchemaVersion, zerolog.Nop())
	if err != nil {
		t.Fatalf("UpgradeDB failed on a new in-memory database: %v", err)
	}

	for _, tableName := range []string{"medtrack_versions", "kv"} {
		checkTableExists(t, db, tableName)
	}

	version, err := GetComponentSchemaVersion(db, RemindersDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed after UpgradeDB: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", RemindersDBComponent, TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_AlreadyUpToDate(t *testing.T) {
	db := openMemoryDB(t)

	if err := InitializeSchema(db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}

	if err := UpgradeDB(db, ":memory:", TargetSchemaVersion, zerolog.Nop()); err != nil {
		t.Fatalf("UpgradeDB failed on an up-to-date database: %v", err)
	}

	version, err := GetComponentSchemaVersion(db, RemindersDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", RemindersDBComponent, TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_OlderVersionNeedsMigration(t *testing.T) {
	db := openMemoryDB(t)

	const dbInitialSchemaVersion int64 = 1
	const appTargetsSchemaVersion int64 = 2

	if err := InitializeSchema(db, dbInitialSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema to version %d failed: %v", dbInitialSchemaVersion, err)
	}

	err := UpgradeDB(db, ":memory:", appTargetsSchemaVersion, zerolog.Nop())
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for an older DB version requiring migration, but it did not")
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database ':memory:' has schema version %d, which is older than application's target schema version %d", RemindersDBComponent, dbInitialSchemaVersion, appTargetsSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}

	currentVersion, getErr := GetComponentSchemaVersion(db, RemindersDBComponent)
	if getErr != nil {
		t.Fatalf("GetComponentSchemaVersion failed after attempted upgrade: %v", getErr)
	}
	if currentVersion != dbInitialSchemaVersion {
		t.Errorf("Database schema version changed from %d to %d after a failed upgrade attempt", dbInitialSchemaVersion, currentVersion)
	}
}

func TestUpgradeDB_NewerVersionUnsupported(t *testing.T) {
	db := openMemoryDB(t)

	const dbInitialSchemaVersion int64 = 2
	const appTargetsSchemaVersion int64 = 1

	if err := InitializeSchema(db, dbInitialSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema to version %d failed: %v", dbInitialSchemaVersion, err)
	}

	err := UpgradeDB(db, ":memory:", appTargetsSchemaVersion, zerolog.Nop())
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for a newer DB version, but it did not")
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database ':memory:' has schema version %d, which is newer than application's target schema version %d", RemindersDBComponent, dbInitialSchemaVersion, appTargetsSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}
}
