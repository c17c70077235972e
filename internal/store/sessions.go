package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
)

// Session is a persisted refresh session. Only the SHA-256 hash of
// the refresh token is stored.
type Session struct {
	TokenHash string
	UserID    uuid.UUID
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// CreateSession inserts a refresh session row.
func (db *DB) CreateSession(s *Session) error {
	_, err := db.conn.Exec(`
		INSERT INTO sessions (token_hash, user_id, expires_at, revoked, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.TokenHash, s.UserID, s.ExpiresAt, s.Revoked, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: create session: %w", err)
	}
	return nil
}

// GetSession returns the session with the given token hash.
func (db *DB) GetSession(tokenHash string) (*Session, error) {
	row := db.conn.QueryRow(`
		SELECT token_hash, user_id, expires_at, revoked, created_at
		FROM sessions WHERE token_hash = ?
	`, tokenHash)
	var s Session
	err := row.Scan(&s.TokenHash, &s.UserID, &s.ExpiresAt, &s.Revoked, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get session: %w", err)
	}
	return &s, nil
}

// RevokeSession marks a session as revoked. Revoking an unknown
// session is not an error; sign-out is idempotent.
func (db *DB) RevokeSession(tokenHash string) error {
	_, err := db.conn.Exec(`UPDATE sessions SET revoked = 1 WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("store: revoke session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry.
func (db *DB) DeleteExpiredSessions(now time.Time) error {
	_, err := db.conn.Exec(`DELETE FROM sessions WHERE expires_at < ?`, now)
	if err != nil {
		return fmt.Errorf("store: delete expired sessions: %w", err)
	}
	return nil
}
