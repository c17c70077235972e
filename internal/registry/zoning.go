package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// ZoningInput carries the caller-settable fields of a zoning law.
type ZoningInput struct {
	ZoneType    string
	Description string
	Regulations string
}

// ListZoningLaws returns all zoning laws. Reference data, world-readable.
func (s *Service) ListZoningLaws(_ context.Context) ([]models.ZoningLaw, error) {
	return s.db.ListZoningLaws()
}

// CreateZoningLaw adds reference data. Admin only.
func (s *Service) CreateZoningLaw(_ context.Context, caller policy.Identity, in ZoningInput) (*models.ZoningLaw, error) {
	if !policy.CanManageZoningLaw(caller) {
		return nil, apperr.ErrForbidden
	}
	if in.ZoneType == "" {
		return nil, apperr.ErrInvalid
	}
	z := &models.ZoningLaw{
		ID:          uuid.New(),
		ZoneType:    in.ZoneType,
		Description: in.Description,
		Regulations: in.Regulations,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.CreateZoningLaw(z); err != nil {
		return nil, err
	}
	return z, nil
}

// UpdateZoningLaw replaces a zoning law's fields. Admin only.
func (s *Service) UpdateZoningLaw(_ context.Context, caller policy.Identity, id uuid.UUID, in ZoningInput) (*models.ZoningLaw, error) {
	if !policy.CanManageZoningLaw(caller) {
		return nil, apperr.ErrForbidden
	}
	z, err := s.db.GetZoningLaw(id)
	if err != nil {
		return nil, err
	}
	if in.ZoneType != "" {
		z.ZoneType = in.ZoneType
	}
	z.Description = in.Description
	z.Regulations = in.Regulations
	if err := s.db.UpdateZoningLaw(z); err != nil {
		return nil, err
	}
	return z, nil
}

// DeleteZoningLaw removes a zoning law. Admin only.
func (s *Service) DeleteZoningLaw(_ context.Context, caller policy.Identity, id uuid.UUID) error {
	if !policy.CanManageZoningLaw(caller) {
		return apperr.ErrForbidden
	}
	return s.db.DeleteZoningLaw(id)
}
