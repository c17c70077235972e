// Package policy implements the row-level access rules of the land
// registry. Every rule is a pure predicate over (identity, row) so
// the same capability model is enforced for single-row operations
// here and mirrored by the SQL visibility filters in the store.
//
// The HTTP layer never decides access on its own: role checks in
// handlers are UX convenience, this package is the control.
package policy

import (
	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
)

// Identity is the authenticated principal a request acts as.
type Identity struct {
	ID   uuid.UUID
	Role models.Role
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

// CanUpdateProfile allows an identity to mutate only its own profile row.
func CanUpdateProfile(id Identity, p *models.Profile) bool {
	return id.ID == p.ID
}

// CanReadLand: any authenticated identity may read all land records.
func CanReadLand(id Identity, _ *models.LandRecord) bool {
	return id.ID != uuid.Nil
}

// CanWriteLand allows insert/update/delete by an admin or by the
// record's declared owner.
func CanWriteLand(id Identity, l *models.LandRecord) bool {
	if id.IsAdmin() {
		return true
	}
	return l.OwnerID != nil && *l.OwnerID == id.ID
}

// CanTransitionLandStatus reserves ownership status changes to admins.
func CanTransitionLandStatus(id Identity) bool {
	return id.IsAdmin()
}

// CanReadDocument allows the submitter, the owner of the referenced
// land record, or an admin.
func CanReadDocument(id Identity, d *models.OwnershipDocument, land *models.LandRecord) bool {
	if id.IsAdmin() || d.SubmittedBy == id.ID {
		return true
	}
	return land != nil && land.OwnerID != nil && *land.OwnerID == id.ID
}

// CanSubmitDocument allows an insert only when the submitter is the
// identity itself and the identity owns the referenced land record.
func CanSubmitDocument(id Identity, d *models.OwnershipDocument, land *models.LandRecord) bool {
	if d.SubmittedBy != id.ID {
		return false
	}
	return land != nil && land.OwnerID != nil && *land.OwnerID == id.ID
}

// CanReviewDocument reserves status transitions to admins.
func CanReviewDocument(id Identity) bool {
	return id.IsAdmin()
}

// CanReadTransaction allows either party to the transaction or an admin.
func CanReadTransaction(id Identity, t *models.Transaction) bool {
	if id.IsAdmin() || t.FromOwnerID == id.ID {
		return true
	}
	return t.ToOwnerID != nil && *t.ToOwnerID == id.ID
}

// CanCreateTransaction allows an insert by either declared party.
func CanCreateTransaction(id Identity, t *models.Transaction) bool {
	if t.FromOwnerID == id.ID {
		return true
	}
	return t.ToOwnerID != nil && *t.ToOwnerID == id.ID
}

// CanManageTransaction reserves status changes to admins.
func CanManageTransaction(id Identity) bool {
	return id.IsAdmin()
}

// CanReadNotification allows only the declared recipient.
func CanReadNotification(id Identity, n *models.Notification) bool {
	return n.UserID == id.ID
}

// CanInsertNotification restricts direct inserts to admins. Regular
// notifications are created by system-initiated actions only.
func CanInsertNotification(id Identity) bool {
	return id.IsAdmin()
}

// CanManageZoningLaw reserves zoning law mutation to admins.
func CanManageZoningLaw(id Identity) bool {
	return id.IsAdmin()
}
