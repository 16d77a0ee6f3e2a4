// Package testing provides testing utilities and helpers for the reserve modelling project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/database"
)

// NewTestDB creates a file-backed SQLite database in a per-test temporary
// directory and applies the schema registered for name.
//
// Supported schema names:
//   - "history" - applies history_schema.sql
//   - Unknown names - creates empty database (no schema applied)
//
// The database is closed when the test finishes.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileStandard,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}
