//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback on land_records.
	return nil
}

func ftsUpsertLand(_ *sql.Tx, _ *models.LandRecord) error {
	// Searchable columns live in land_records already; nothing extra to do.
	return nil
}

func ftsDeleteLand(_ *sql.Tx, _ uuid.UUID) {}

// SearchVerifiedLands performs a LIKE-based search over verified land
// records (fallback when FTS5 is not compiled in).
func (db *DB) SearchVerifiedLands(query string, limit int) ([]LandSearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, title, location, substr(description, 1, 200)
		FROM land_records
		WHERE ownership_status = 'verified'
		  AND (title LIKE ? OR location LIKE ? OR description LIKE ? OR zoning LIKE ?)
		ORDER BY created_at DESC
		LIMIT ?
	`, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []LandSearchResult
	for rows.Next() {
		var r LandSearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Location, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
