package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// TransactionInput carries the caller-settable fields of a transaction.
type TransactionInput struct {
	LandRecordID    uuid.UUID
	FromOwnerID     uuid.UUID
	ToOwnerID       *uuid.UUID
	TransactionType string
	Amount          *float64
}

// ListTransactions returns the transactions visible to the viewer.
func (s *Service) ListTransactions(_ context.Context, viewer policy.Identity) ([]models.Transaction, error) {
	if viewer.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.db.ListTransactions(viewer)
}

// GetTransaction returns one transaction if the viewer is a party or admin.
func (s *Service) GetTransaction(_ context.Context, viewer policy.Identity, id uuid.UUID) (*models.Transaction, error) {
	t, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTransaction(viewer, t) {
		return nil, apperr.ErrNotFound
	}
	return t, nil
}

// CreateTransaction proposes an ownership change. The caller must be
// one of the declared parties; the transaction starts pending.
func (s *Service) CreateTransaction(_ context.Context, caller policy.Identity, in TransactionInput) (*models.Transaction, error) {
	switch in.TransactionType {
	case models.TransactionSale, models.TransactionTransfer, models.TransactionInheritance:
	default:
		return nil, apperr.ErrInvalid
	}
	if _, err := s.db.GetLand(in.LandRecordID); err != nil {
		return nil, apperr.ErrInvalid
	}

	t := &models.Transaction{
		ID:              uuid.New(),
		LandRecordID:    in.LandRecordID,
		FromOwnerID:     in.FromOwnerID,
		ToOwnerID:       in.ToOwnerID,
		TransactionType: in.TransactionType,
		Amount:          in.Amount,
		Status:          models.TransactionPending,
		CreatedAt:       s.now().UTC(),
	}
	if !policy.CanCreateTransaction(caller, t) {
		return nil, apperr.ErrForbidden
	}
	if err := s.db.CreateTransaction(t); err != nil {
		return nil, err
	}
	return t, nil
}

// SetTransactionStatus moves a transaction through its lifecycle.
// Admin only.
func (s *Service) SetTransactionStatus(_ context.Context, caller policy.Identity, id uuid.UUID, status string) (*models.Transaction, error) {
	if !policy.CanManageTransaction(caller) {
		return nil, apperr.ErrForbidden
	}
	switch status {
	case models.TransactionPending, models.TransactionApproved,
		models.TransactionCompleted, models.TransactionCancelled:
	default:
		return nil, apperr.ErrInvalid
	}
	if err := s.db.SetTransactionStatus(id, status, caller.ID); err != nil {
		return nil, err
	}
	return s.db.GetTransaction(id)
}
