package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

const transactionColumns = `id, land_record_id, from_owner_id, to_owner_id,
	transaction_type, amount, status, approved_by, created_at`

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	var t models.Transaction
	var to, approver uuid.NullUUID
	var amount sql.NullFloat64
	err := scan(&t.ID, &t.LandRecordID, &t.FromOwnerID, &to, &t.TransactionType,
		&amount, &t.Status, &approver, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if to.Valid {
		id := to.UUID
		t.ToOwnerID = &id
	}
	if approver.Valid {
		id := approver.UUID
		t.ApprovedBy = &id
	}
	if amount.Valid {
		t.Amount = &amount.Float64
	}
	return &t, nil
}

// CreateTransaction inserts a transaction row.
func (db *DB) CreateTransaction(t *models.Transaction) error {
	_, err := db.conn.Exec(`
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.LandRecordID, t.FromOwnerID, nullUUID(t.ToOwnerID), t.TransactionType,
		nullFloat(t.Amount), t.Status, nullUUID(t.ApprovedBy), t.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return apperr.ErrInvalid
		}
		return fmt.Errorf("store: create transaction: %w", err)
	}
	return nil
}

// GetTransaction returns the transaction with the given id.
func (db *DB) GetTransaction(id uuid.UUID) (*models.Transaction, error) {
	row := db.conn.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the transactions visible to the viewer:
// rows where the viewer is a party, or every row for an admin.
func (db *DB) ListTransactions(viewer policy.Identity) ([]models.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions`
	var args []any
	if !viewer.IsAdmin() {
		q += ` WHERE from_owner_id = ? OR to_owner_id = ?`
		args = append(args, viewer.ID, viewer.ID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// SetTransactionStatus updates the lifecycle status and approver.
func (db *DB) SetTransactionStatus(id uuid.UUID, status string, approvedBy uuid.UUID) error {
	res, err := db.conn.Exec(`
		UPDATE transactions SET status = ?, approved_by = ? WHERE id = ?
	`, status, approvedBy, id)
	if err != nil {
		return fmt.Errorf("store: set transaction status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountTransactionsByStatus returns transaction counts per status.
func (db *DB) CountTransactionsByStatus() (map[string]int, error) {
	rows, err := db.conn.Query(`SELECT status, COUNT(*) FROM transactions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("store: count transactions: %w", err)
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
