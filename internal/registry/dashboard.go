package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// Dashboard is the role-shaped aggregate view.
type Dashboard struct {
	Role                string         `json:"role"`
	LandsByStatus       map[string]int `json:"lands_by_status,omitempty"`
	DocumentsByStatus   map[string]int `json:"documents_by_status,omitempty"`
	TransactionsByState map[string]int `json:"transactions_by_status,omitempty"`
	VerifiedLands       int            `json:"verified_lands,omitempty"`
	UserCount           int            `json:"user_count,omitempty"`
	UnreadNotifications int            `json:"unread_notifications"`
}

// GetDashboard returns the aggregates the caller's role sees: admins
// get registry-wide counts, landowners their own records, public
// users the verified record count.
func (s *Service) GetDashboard(_ context.Context, caller policy.Identity) (*Dashboard, error) {
	if caller.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}

	unread, err := s.db.CountUnreadNotifications(caller.ID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Role: string(caller.Role), UnreadNotifications: unread}

	switch caller.Role {
	case models.RoleAdmin:
		if d.LandsByStatus, err = s.db.CountLandsByStatus(nil); err != nil {
			return nil, err
		}
		if d.DocumentsByStatus, err = s.db.CountDocumentsByStatus(nil); err != nil {
			return nil, err
		}
		if d.TransactionsByState, err = s.db.CountTransactionsByStatus(); err != nil {
			return nil, err
		}
		if d.UserCount, err = s.db.CountProfiles(); err != nil {
			return nil, err
		}
	case models.RoleLandowner:
		owner := caller.ID
		if d.LandsByStatus, err = s.db.CountLandsByStatus(&owner); err != nil {
			return nil, err
		}
		submitter := caller.ID
		if d.DocumentsByStatus, err = s.db.CountDocumentsByStatus(&submitter); err != nil {
			return nil, err
		}
	default:
		all, err := s.db.CountLandsByStatus(nil)
		if err != nil {
			return nil, err
		}
		d.VerifiedLands = all[models.OwnershipVerified]
	}
	return d, nil
}
