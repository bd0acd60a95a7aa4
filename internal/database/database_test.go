package database

import (
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test_database.db")

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if db.Dialect != DialectSQLite {
		t.Errorf("Expected sqlite dialect, got %s", db.Dialect)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New("/invalid/path/that/does/not/exist/test.db")
	if err == nil {
		t.Fatal("Expected error for invalid path, got nil")
	}
}

func TestInitialize(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test_init.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	// Migrations are idempotent
	if err := db.Initialize(); err != nil {
		t.Fatalf("Second initialize failed: %v", err)
	}

	var name string
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
	if err := db.QueryRow(query, "preferences").Scan(&name); err != nil {
		t.Errorf("Table preferences was not created: %v", err)
	}
}

func TestUpsert(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "test_upsert.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	for _, v := range []string{"false", "true"} {
		if _, err := db.Exec(db.UpsertSQL("preferences"), "onboarding_completed", v, "2024-01-01 00:00:00"); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	var value string
	if err := db.QueryRow("SELECT value FROM preferences WHERE "+db.KeyColumn()+" = ?", "onboarding_completed").Scan(&value); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if value != "true" {
		t.Errorf("Expected upserted value true, got %s", value)
	}
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mysql://user:pass@db:3306/agentdesk?parseTime=true", "user:pass@tcp(db:3306)/agentdesk?parseTime=true"},
		{"mysql://user@localhost/agentdesk", "user@tcp(localhost)/agentdesk"},
		{"mysql://nohost", "nohost"},
	}
	for _, tt := range tests {
		if got := mysqlDSN(tt.in); got != tt.want {
			t.Errorf("mysqlDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
