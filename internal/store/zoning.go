package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
)

// CreateZoningLaw inserts a zoning law row.
func (db *DB) CreateZoningLaw(z *models.ZoningLaw) error {
	_, err := db.conn.Exec(`
		INSERT INTO zoning_laws (id, zone_type, description, regulations, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, z.ID, z.ZoneType, z.Description, z.Regulations, z.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: create zoning law: %w", err)
	}
	return nil
}

// GetZoningLaw returns the zoning law with the given id.
func (db *DB) GetZoningLaw(id uuid.UUID) (*models.ZoningLaw, error) {
	row := db.conn.QueryRow(`
		SELECT id, zone_type, description, regulations, created_at
		FROM zoning_laws WHERE id = ?
	`, id)
	var z models.ZoningLaw
	err := row.Scan(&z.ID, &z.ZoneType, &z.Description, &z.Regulations, &z.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get zoning law: %w", err)
	}
	return &z, nil
}

// ListZoningLaws returns every zoning law ordered by zone type.
func (db *DB) ListZoningLaws() ([]models.ZoningLaw, error) {
	rows, err := db.conn.Query(`
		SELECT id, zone_type, description, regulations, created_at
		FROM zoning_laws ORDER BY zone_type
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list zoning laws: %w", err)
	}
	defer rows.Close()

	out := []models.ZoningLaw{}
	for rows.Next() {
		var z models.ZoningLaw
		if err := rows.Scan(&z.ID, &z.ZoneType, &z.Description, &z.Regulations, &z.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// UpdateZoningLaw replaces the mutable fields of a zoning law.
func (db *DB) UpdateZoningLaw(z *models.ZoningLaw) error {
	res, err := db.conn.Exec(`
		UPDATE zoning_laws SET zone_type = ?, description = ?, regulations = ?
		WHERE id = ?
	`, z.ZoneType, z.Description, z.Regulations, z.ID)
	if err != nil {
		return fmt.Errorf("store: update zoning law: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteZoningLaw removes a zoning law.
func (db *DB) DeleteZoningLaw(id uuid.UUID) error {
	res, err := db.conn.Exec(`DELETE FROM zoning_laws WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete zoning law: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
