// Package testutil provides shared test helpers for setting up databases and upload stores.
package testutil

import (
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/files"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cadastr-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestUploads creates a temporary upload directory with a files.Store.
func TestUploads(t *testing.T) (string, *files.Store) {
	t.Helper()
	dir := t.TempDir()
	fs, err := files.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// SeedProfile inserts a profile with the given role and returns it.
func SeedProfile(t *testing.T, db *store.DB, role models.Role) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         role,
	}
	if err := db.CreateProfile(p); err != nil {
		t.Fatal(err)
	}
	return p
}

// SeedLand inserts a land record owned by ownerID (nil for unowned) with the given status.
func SeedLand(t *testing.T, db *store.DB, ownerID *uuid.UUID, status string) *models.LandRecord {
	t.Helper()
	l := &models.LandRecord{
		ID:              uuid.New(),
		Title:           "Plot " + uuid.NewString()[:8],
		Location:        "Test Valley",
		Size:            100,
		SizeUnit:        "sqm",
		Zoning:          "residential",
		OwnershipStatus: status,
		OwnerID:         ownerID,
	}
	if err := db.CreateLand(l); err != nil {
		t.Fatal(err)
	}
	return l
}
