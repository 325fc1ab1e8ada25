package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitDB_CreatesClientStorage verifies the schema is created.
func TestInitDB_CreatesClientStorage(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='client_storage'").Scan(&name)
	if err != nil {
		t.Fatalf("client_storage table missing: %v", err)
	}
}

// TestInitDB_Idempotent verifies running InitDB twice is safe.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}

// TestOpen_File verifies a file-backed database opens with schema.
func TestOpen_File(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "redconnect.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("INSERT INTO client_storage (client_id, key, value, updated_at) VALUES ('c', 'k', x'00', 'now')"); err != nil {
		t.Errorf("insert failed: %v", err)
	}
}
