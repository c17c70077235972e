package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
)

// LandFilter narrows and orders land record listings. Zero values
// mean "no constraint" for the corresponding axis.
type LandFilter struct {
	Query    string
	Status   string
	Zoning   string
	OwnerID  *uuid.UUID
	MinPrice *float64
	MaxPrice *float64
	MinSize  *float64
	MaxSize  *float64
	Sort     string
	Limit    int
	Offset   int
}

// LandSearchResult is one full-text search hit.
type LandSearchResult struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Snippet  string    `json:"snippet"`
}

const landColumns = `id, title, location, coordinates, size, size_unit, ownership_status,
	zoning, price, description, owner_id, verified_by, created_at, updated_at`

func scanLand(scan func(dest ...any) error) (*models.LandRecord, error) {
	var l models.LandRecord
	var price sql.NullFloat64
	var owner, verifier uuid.NullUUID
	err := scan(&l.ID, &l.Title, &l.Location, &l.Coordinates, &l.Size, &l.SizeUnit,
		&l.OwnershipStatus, &l.Zoning, &price, &l.Description, &owner, &verifier,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		l.Price = &price.Float64
	}
	if owner.Valid {
		id := owner.UUID
		l.OwnerID = &id
	}
	if verifier.Valid {
		id := verifier.UUID
		l.VerifiedBy = &id
	}
	return &l, nil
}

// CreateLand inserts a land record and its FTS entry.
func (db *DB) CreateLand(l *models.LandRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO land_records (`+landColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Title, l.Location, l.Coordinates, l.Size, l.SizeUnit, l.OwnershipStatus,
		l.Zoning, nullFloat(l.Price), l.Description, nullUUID(l.OwnerID), nullUUID(l.VerifiedBy),
		l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: create land: %w", err)
	}
	if err := ftsUpsertLand(tx, l); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateLand replaces the mutable fields of a land record and
// refreshes its FTS entry. Last write wins.
func (db *DB) UpdateLand(l *models.LandRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`
		UPDATE land_records SET
			title = ?, location = ?, coordinates = ?, size = ?, size_unit = ?,
			ownership_status = ?, zoning = ?, price = ?, description = ?,
			owner_id = ?, verified_by = ?, updated_at = ?
		WHERE id = ?
	`, l.Title, l.Location, l.Coordinates, l.Size, l.SizeUnit, l.OwnershipStatus,
		l.Zoning, nullFloat(l.Price), l.Description, nullUUID(l.OwnerID),
		nullUUID(l.VerifiedBy), l.UpdatedAt, l.ID)
	if err != nil {
		return fmt.Errorf("store: update land: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := ftsUpsertLand(tx, l); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteLand removes a land record, its FTS entry, and (via FK
// cascade) its documents and transactions.
func (db *DB) DeleteLand(id uuid.UUID) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeleteLand(tx, id)
	res, err := tx.Exec(`DELETE FROM land_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete land: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// GetLand returns the land record with the given id.
func (db *DB) GetLand(id uuid.UUID) (*models.LandRecord, error) {
	row := db.conn.QueryRow(`SELECT `+landColumns+` FROM land_records WHERE id = ?`, id)
	l, err := scanLand(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get land: %w", err)
	}
	return l, nil
}

// ListLands returns land records matching the filter plus the total
// match count before limit/offset.
func (db *DB) ListLands(f LandFilter) ([]models.LandRecord, int, error) {
	where, args := landWhere(f)

	var total int
	countQ := `SELECT COUNT(*) FROM land_records` + where
	if err := db.conn.QueryRow(countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count lands: %w", err)
	}

	q := `SELECT ` + landColumns + ` FROM land_records` + where + landOrder(f.Sort)
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list lands: %w", err)
	}
	defer rows.Close()

	out := []models.LandRecord{}
	for rows.Next() {
		l, err := scanLand(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *l)
	}
	return out, total, rows.Err()
}

// TransitionLandStatus sets the ownership status and verifier of a record.
func (db *DB) TransitionLandStatus(id uuid.UUID, status string, verifiedBy uuid.UUID, now time.Time) error {
	res, err := db.conn.Exec(`
		UPDATE land_records SET ownership_status = ?, verified_by = ?, updated_at = ?
		WHERE id = ?
	`, status, verifiedBy, now, id)
	if err != nil {
		return fmt.Errorf("store: transition land status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountLandsByStatus returns the number of land records per ownership
// status, optionally restricted to one owner.
func (db *DB) CountLandsByStatus(ownerID *uuid.UUID) (map[string]int, error) {
	q := `SELECT ownership_status, COUNT(*) FROM land_records`
	var args []any
	if ownerID != nil {
		q += ` WHERE owner_id = ?`
		args = append(args, *ownerID)
	}
	q += ` GROUP BY ownership_status`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: count lands: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func landWhere(f LandFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Query != "" {
		like := "%" + f.Query + "%"
		conds = append(conds, `(title LIKE ? OR location LIKE ? OR description LIKE ?)`)
		args = append(args, like, like, like)
	}
	if f.Status != "" {
		conds = append(conds, `ownership_status = ?`)
		args = append(args, f.Status)
	}
	if f.Zoning != "" {
		conds = append(conds, `zoning = ?`)
		args = append(args, f.Zoning)
	}
	if f.OwnerID != nil {
		conds = append(conds, `owner_id = ?`)
		args = append(args, *f.OwnerID)
	}
	if f.MinPrice != nil {
		conds = append(conds, `price >= ?`)
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, `price <= ?`)
		args = append(args, *f.MaxPrice)
	}
	if f.MinSize != nil {
		conds = append(conds, `size >= ?`)
		args = append(args, *f.MinSize)
	}
	if f.MaxSize != nil {
		conds = append(conds, `size <= ?`)
		args = append(args, *f.MaxSize)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func landOrder(sort string) string {
	switch sort {
	case "title":
		return ` ORDER BY title`
	case "price":
		return ` ORDER BY price`
	case "size":
		return ` ORDER BY size`
	case "updated_at":
		return ` ORDER BY updated_at DESC`
	default:
		return ` ORDER BY created_at DESC`
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullUUID(v *uuid.UUID) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *v, Valid: true}
}
