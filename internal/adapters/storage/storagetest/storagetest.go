// Package storagetest opens migrated in-memory databases for store and handler tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"gymdesk/internal/adapters/storage"
)

// Open returns a migrated in-memory SQLite database that is closed when the test ends.
// PRE: none
// POST: Schema is at storage.LatestSchemaVersion with foreign keys enforced
func Open(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Each connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// Exec runs seed statements and fails the test on the first error.
func Exec(t testing.TB, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
	}
}
