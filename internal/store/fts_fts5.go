//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS lands_fts USING fts5(
			id UNINDEXED,
			title,
			location,
			description,
			zoning,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsertLand(tx *sql.Tx, l *models.LandRecord) error {
	_, _ = tx.Exec(`DELETE FROM lands_fts WHERE id = ?`, l.ID)
	_, err := tx.Exec(`INSERT INTO lands_fts (id, title, location, description, zoning) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.Title, l.Location, l.Description, l.Zoning)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func ftsDeleteLand(tx *sql.Tx, id uuid.UUID) {
	_, _ = tx.Exec(`DELETE FROM lands_fts WHERE id = ?`, id)
}

// SearchVerifiedLands performs an FTS5 full-text search over verified
// land records and returns matches with snippets.
func (db *DB) SearchVerifiedLands(query string, limit int) ([]LandSearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.id,
		       f.title,
		       f.location,
		       snippet(lands_fts, 3, '<b>', '</b>', '...', 64)
		FROM lands_fts f
		JOIN land_records l ON l.id = f.id
		WHERE lands_fts MATCH ? AND l.ownership_status = 'verified'
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
