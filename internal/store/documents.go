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

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	LandRecordID *uuid.UUID
	Status       string
}

const documentColumns = `id, land_record_id, document_type, document_url, status,
	submitted_by, reviewed_by, notes, created_at`

func scanDocument(scan func(dest ...any) error) (*models.OwnershipDocument, error) {
	var d models.OwnershipDocument
	var reviewer uuid.NullUUID
	err := scan(&d.ID, &d.LandRecordID, &d.DocumentType, &d.DocumentURL, &d.Status,
		&d.SubmittedBy, &reviewer, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reviewer.Valid {
		id := reviewer.UUID
		d.ReviewedBy = &id
	}
	return &d, nil
}

// CreateDocument inserts an ownership document row.
func (db *DB) CreateDocument(d *models.OwnershipDocument) error {
	_, err := db.conn.Exec(`
		INSERT INTO ownership_documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.LandRecordID, d.DocumentType, d.DocumentURL, d.Status,
		d.SubmittedBy, nullUUID(d.ReviewedBy), d.Notes, d.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return apperr.ErrInvalid
		}
		return fmt.Errorf("store: create document: %w", err)
	}
	return nil
}

// GetDocument returns the document with the given id.
func (db *DB) GetDocument(id uuid.UUID) (*models.OwnershipDocument, error) {
	row := db.conn.QueryRow(`SELECT `+documentColumns+` FROM ownership_documents WHERE id = ?`, id)
	d, err := scanDocument(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns the documents visible to the viewer: rows the
// viewer submitted, rows against land the viewer owns, or every row
// for an admin. The visibility predicate is applied in SQL.
func (db *DB) ListDocuments(viewer policy.Identity, f DocumentFilter) ([]models.OwnershipDocument, error) {
	conds := []string{}
	args := []any{}

	if !viewer.IsAdmin() {
		conds = append(conds, `(d.submitted_by = ? OR l.owner_id = ?)`)
		args = append(args, viewer.ID, viewer.ID)
	}
	if f.LandRecordID != nil {
		conds = append(conds, `d.land_record_id = ?`)
		args = append(args, *f.LandRecordID)
	}
	if f.Status != "" {
		conds = append(conds, `d.status = ?`)
		args = append(args, f.Status)
	}

	q := `
		SELECT d.id, d.land_record_id, d.document_type, d.document_url, d.status,
		       d.submitted_by, d.reviewed_by, d.notes, d.created_at
		FROM ownership_documents d
		JOIN land_records l ON l.id = d.land_record_id`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY d.created_at DESC`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	defer rows.Close()

	out := []models.OwnershipDocument{}
	for rows.Next() {
		d, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ReviewDocument sets the review outcome of a document.
func (db *DB) ReviewDocument(id uuid.UUID, status string, reviewedBy uuid.UUID, notes string) error {
	res, err := db.conn.Exec(`
		UPDATE ownership_documents SET status = ?, reviewed_by = ?, notes = ?
		WHERE id = ?
	`, status, reviewedBy, notes, id)
	if err != nil {
		return fmt.Errorf("store: review document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// CountDocumentsByStatus returns document counts per status, optionally
// restricted to one submitter.
func (db *DB) CountDocumentsByStatus(submittedBy *uuid.UUID) (map[string]int, error) {
	q := `SELECT status, COUNT(*) FROM ownership_documents`
	var args []any
	if submittedBy != nil {
		q += ` WHERE submitted_by = ?`
		args = append(args, *submittedBy)
	}
	q += ` GROUP BY status`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: count documents: %w", err)
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

// AllDocumentURLs returns every stored document URL, used by the
// uploads reconciler.
func (db *DB) AllDocumentURLs() ([]string, error) {
	rows, err := db.conn.Query(`SELECT document_url FROM ownership_documents`)
	if err != nil {
		return nil, fmt.Errorf("store: document urls: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
