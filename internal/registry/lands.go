package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
	"github.com/marlowe/cadastr/internal/store"
)

// LandInput carries the caller-settable fields of a land record.
type LandInput struct {
	Title       string
	Location    string
	Coordinates string
	Size        float64
	SizeUnit    string
	Zoning      string
	Price       *float64
	Description string
	OwnerID     *uuid.UUID
}

// ListLands returns land records matching the filter. All
// authenticated identities may read all records.
func (s *Service) ListLands(_ context.Context, viewer policy.Identity, f store.LandFilter) ([]models.LandRecord, int, error) {
	if viewer.ID == uuid.Nil {
		return nil, 0, apperr.ErrUnauthorized
	}
	return s.db.ListLands(f)
}

// GetLand returns one land record.
func (s *Service) GetLand(_ context.Context, viewer policy.Identity, id uuid.UUID) (*models.LandRecord, error) {
	l, err := s.db.GetLand(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadLand(viewer, l) {
		return nil, apperr.ErrForbidden
	}
	return l, nil
}

// CreateLand registers a parcel. A landowner-created record starts
// pending and is owned by the caller; an admin-created record starts
// verified with the admin as verifier. Public users cannot create.
func (s *Service) CreateLand(_ context.Context, caller policy.Identity, in LandInput) (*models.LandRecord, error) {
	if in.Title == "" || in.Location == "" || in.Size <= 0 {
		return nil, apperr.ErrInvalid
	}
	now := s.now().UTC()
	l := &models.LandRecord{
		ID:          uuid.New(),
		Title:       in.Title,
		Location:    in.Location,
		Coordinates: in.Coordinates,
		Size:        in.Size,
		SizeUnit:    in.SizeUnit,
		Zoning:      in.Zoning,
		Price:       in.Price,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if l.SizeUnit == "" {
		l.SizeUnit = "sqm"
	}

	switch caller.Role {
	case models.RoleAdmin:
		l.OwnershipStatus = models.OwnershipVerified
		verifier := caller.ID
		l.VerifiedBy = &verifier
		l.OwnerID = in.OwnerID
	case models.RoleLandowner:
		l.OwnershipStatus = models.OwnershipPending
		owner := caller.ID
		l.OwnerID = &owner
	default:
		return nil, apperr.ErrForbidden
	}

	if err := s.db.CreateLand(l); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLand replaces the caller-settable fields of a record. Only an
// admin or the record owner may update; ownership status is never
// touched here (transitions are admin-only via TransitionLandStatus).
func (s *Service) UpdateLand(_ context.Context, caller policy.Identity, id uuid.UUID, in LandInput) (*models.LandRecord, error) {
	l, err := s.db.GetLand(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanWriteLand(caller, l) {
		return nil, apperr.ErrForbidden
	}
	if in.Title == "" || in.Location == "" || in.Size <= 0 {
		return nil, apperr.ErrInvalid
	}

	l.Title = in.Title
	l.Location = in.Location
	l.Coordinates = in.Coordinates
	l.Size = in.Size
	if in.SizeUnit != "" {
		l.SizeUnit = in.SizeUnit
	}
	l.Zoning = in.Zoning
	l.Price = in.Price
	l.Description = in.Description
	if caller.IsAdmin() && in.OwnerID != nil {
		l.OwnerID = in.OwnerID
	}
	l.UpdatedAt = s.now().UTC()

	if err := s.db.UpdateLand(l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLand removes a record. Only an admin or the record owner.
func (s *Service) DeleteLand(_ context.Context, caller policy.Identity, id uuid.UUID) error {
	l, err := s.db.GetLand(id)
	if err != nil {
		return err
	}
	if !policy.CanWriteLand(caller, l) {
		return apperr.ErrForbidden
	}
	return s.db.DeleteLand(id)
}

// TransitionLandStatus moves a record between verified/pending/disputed.
// Admin only; the owner is notified of the outcome.
func (s *Service) TransitionLandStatus(_ context.Context, caller policy.Identity, id uuid.UUID, status string) (*models.LandRecord, error) {
	if !policy.CanTransitionLandStatus(caller) {
		return nil, apperr.ErrForbidden
	}
	switch status {
	case models.OwnershipVerified, models.OwnershipPending, models.OwnershipDisputed:
	default:
		return nil, apperr.ErrInvalid
	}
	l, err := s.db.GetLand(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.TransitionLandStatus(id, status, caller.ID, s.now().UTC()); err != nil {
		return nil, err
	}

	if l.OwnerID != nil {
		typ := models.NotificationInfo
		if status == models.OwnershipVerified {
			typ = models.NotificationSuccess
		} else if status == models.OwnershipDisputed {
			typ = models.NotificationWarning
		}
		msg := fmt.Sprintf("Your land record %q is now %s.", l.Title, status)
		// The status change is already committed; a failed notification
		// must not turn a successful transition into an error.
		if err := s.createNotification(*l.OwnerID, "Land record status updated", msg, typ); err != nil {
			slog.Error("notify owner of status change", "land_id", id, "error", err)
		}
	}
	return s.db.GetLand(id)
}

// RequestVerification lets the record owner ask admins to verify a
// pending record. Every admin receives a notification.
func (s *Service) RequestVerification(_ context.Context, caller policy.Identity, id uuid.UUID) error {
	l, err := s.db.GetLand(id)
	if err != nil {
		return err
	}
	if l.OwnerID == nil || *l.OwnerID != caller.ID {
		return apperr.ErrForbidden
	}
	if l.OwnershipStatus == models.OwnershipVerified {
		return apperr.ErrConflict
	}

	admins, err := s.db.ListAdminIDs()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Verification requested for land record %q at %s.", l.Title, l.Location)
	for _, adminID := range admins {
		if err := s.createNotification(adminID, "Verification request", msg, models.NotificationInfo); err != nil {
			return err
		}
	}
	return nil
}

// SearchVerified is the public full-text search over verified records.
func (s *Service) SearchVerified(_ context.Context, query string, limit int) ([]store.LandSearchResult, error) {
	if query == "" {
		return nil, apperr.ErrInvalid
	}
	return s.db.SearchVerifiedLands(query, limit)
}
