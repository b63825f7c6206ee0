package repositories

import (
	"path/filepath"
	"testing"

	"telegram-admin/config"
)

// newTestDatabase returns a connected sqlite-backed handle in a
// throwaway directory.
func newTestDatabase(t *testing.T) *config.Database {
	t.Helper()
	db := config.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if _, ok := db.Handle(); !ok {
		t.Fatal("expected test database to connect")
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newUnavailableDatabase returns a handle that never connects.
func newUnavailableDatabase() *config.Database {
	return config.NewDatabase("")
}
