package testutils

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FieldMesh/noisemap/internal/db"
)

// SetupTestDB opens an in-memory sqlite database and applies the schema
// migrations from migrationsURL (a file:// path relative to the calling
// test's package directory). The database is closed when the test ends.
func SetupTestDB(t *testing.T, migrationsURL string) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// A second connection would see a fresh empty :memory: database.
	database.SetMaxOpenConns(1)

	if err := db.Migrate(database, migrationsURL); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})
	return database
}
