package testutil

import (
	"path/filepath"
	"testing"

	"github.com/reelswipe/reelswipe/internal/database"
)

// NewTestDB creates a migrated temporary database for testing.
// The database lives under t.TempDir() and is cleaned up automatically.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(path)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
