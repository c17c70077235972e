package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
)

// CreateProfile inserts a new profile row.
func (db *DB) CreateProfile(p *models.Profile) error {
	_, err := db.conn.Exec(`
		INSERT INTO profiles (id, email, password_hash, full_name, role, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, strings.ToLower(p.Email), p.PasswordHash, p.FullName, string(p.Role), p.Phone, p.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperr.ErrAlreadyExists
		}
		return fmt.Errorf("store: create profile: %w", err)
	}
	return nil
}

func (db *DB) scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var role string
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &role, &p.Phone, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan profile: %w", err)
	}
	p.Role = models.Role(role)
	return &p, nil
}

// GetProfile returns the profile with the given id.
func (db *DB) GetProfile(id uuid.UUID) (*models.Profile, error) {
	row := db.conn.QueryRow(`
		SELECT id, email, password_hash, full_name, role, phone, created_at
		FROM profiles WHERE id = ?
	`, id)
	return db.scanProfile(row)
}

// GetProfileByEmail returns the profile with the given email.
func (db *DB) GetProfileByEmail(email string) (*models.Profile, error) {
	row := db.conn.QueryRow(`
		SELECT id, email, password_hash, full_name, role, phone, created_at
		FROM profiles WHERE email = ?
	`, strings.ToLower(email))
	return db.scanProfile(row)
}

// ListProfiles returns all profiles ordered by creation time.
func (db *DB) ListProfiles() ([]models.Profile, error) {
	rows, err := db.conn.Query(`
		SELECT id, email, password_hash, full_name, role, phone, created_at
		FROM profiles ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list profiles: %w", err)
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		var role string
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &role, &p.Phone, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Role = models.Role(role)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListAdminIDs returns the ids of every admin profile.
func (db *DB) ListAdminIDs() ([]uuid.UUID, error) {
	rows, err := db.conn.Query(`SELECT id FROM profiles WHERE role = 'admin'`)
	if err != nil {
		return nil, fmt.Errorf("store: list admins: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateProfile updates the mutable profile fields (full name, phone).
func (db *DB) UpdateProfile(p *models.Profile) error {
	res, err := db.conn.Exec(`
		UPDATE profiles SET full_name = ?, phone = ? WHERE id = ?
	`, p.FullName, p.Phone, p.ID)
	if err != nil {
		return fmt.Errorf("store: update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountProfiles returns the number of registered profiles.
func (db *DB) CountProfiles() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count profiles: %w", err)
	}
	return n, nil
}
