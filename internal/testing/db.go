// Package testing provides test helpers shared across hoteldo packages.
package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/hoteldo/internal/database"
)

// NewTestDB creates a migrated hoteldo database under dir.
// An empty dir uses a fresh temporary directory. The database is closed on cleanup.
func NewTestDB(t *testing.T, dir string) *database.DB {
	t.Helper()

	if dir == "" {
		dir = t.TempDir()
	}

	db, err := database.New(database.Config{
		Path:    filepath.Join(dir, "hoteldo.db"),
		Profile: database.ProfileStandard,
		Name:    "hoteldo",
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// WriteExports writes both CSV exports into dir as rates.csv and requests.csv
func WriteExports(t *testing.T, dir, ratesCSV, requestsCSV string) (ratesPath, requestsPath string) {
	t.Helper()

	ratesPath = filepath.Join(dir, "rates.csv")
	requestsPath = filepath.Join(dir, "requests.csv")
	if err := os.WriteFile(ratesPath, []byte(ratesCSV), 0o644); err != nil {
		t.Fatalf("Failed to write rates export: %v", err)
	}
	if err := os.WriteFile(requestsPath, []byte(requestsCSV), 0o644); err != nil {
		t.Fatalf("Failed to write requests export: %v", err)
	}
	return ratesPath, requestsPath
}
