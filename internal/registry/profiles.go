package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// ListProfiles returns all profiles. Readable by any authenticated identity.
func (s *Service) ListProfiles(_ context.Context, viewer policy.Identity) ([]models.Profile, error) {
	if viewer.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.db.ListProfiles()
}

// GetProfile returns one profile. Readable by any authenticated identity.
func (s *Service) GetProfile(_ context.Context, viewer policy.Identity, id uuid.UUID) (*models.Profile, error) {
	if viewer.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.db.GetProfile(id)
}
