package registry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
	"github.com/marlowe/cadastr/internal/registry"
	"github.com/marlowe/cadastr/internal/store"
	"github.com/marlowe/cadastr/internal/testutil"
)

func testService(t *testing.T) (*registry.Service, *store.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	return registry.NewService(db, nil), db
}

func asIdentity(p *models.Profile) policy.Identity {
	return policy.Identity{ID: p.ID, Role: p.Role}
}

func TestCreateLandByRole(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	public := testutil.SeedProfile(t, db, models.RolePublic)

	in := registry.LandInput{Title: "North Field", Location: "Hill Rd", Size: 1200, Zoning: "agricultural"}

	// Landowner-created records start pending and belong to the caller.
	l, err := svc.CreateLand(ctx, asIdentity(owner), in)
	if err != nil {
		t.Fatalf("landowner create: %v", err)
	}
	if l.OwnershipStatus != models.OwnershipPending {
		t.Errorf("status = %q, want pending", l.OwnershipStatus)
	}
	if l.OwnerID == nil || *l.OwnerID != owner.ID {
		t.Errorf("owner = %v, want caller", l.OwnerID)
	}
	if l.SizeUnit != "sqm" {
		t.Errorf("size unit = %q, want default sqm", l.SizeUnit)
	}

	// Admin-created records start verified with the admin as verifier.
	l, err = svc.CreateLand(ctx, asIdentity(admin), in)
	if err != nil {
		t.Fatalf("admin create: %v", err)
	}
	if l.OwnershipStatus != models.OwnershipVerified {
		t.Errorf("status = %q, want verified", l.OwnershipStatus)
	}
	if l.VerifiedBy == nil || *l.VerifiedBy != admin.ID {
		t.Errorf("verified_by = %v", l.VerifiedBy)
	}

	// Public users cannot register parcels.
	if _, err := svc.CreateLand(ctx, asIdentity(public), in); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("public create err = %v, want ErrForbidden", err)
	}
}

func TestUpdateLandOwnership(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	other := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	in := registry.LandInput{Title: land.Title, Location: land.Location, Size: land.Size, Description: "updated"}

	// Non-owner cannot update.
	if _, err := svc.UpdateLand(ctx, asIdentity(other), land.ID, in); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("non-owner update err = %v, want ErrForbidden", err)
	}

	// Owner can, but the ownership status is untouched.
	got, err := svc.UpdateLand(ctx, asIdentity(owner), land.ID, in)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if got.Description != "updated" {
		t.Errorf("description = %q", got.Description)
	}
	if got.OwnershipStatus != models.OwnershipPending {
		t.Errorf("status changed to %q on plain update", got.OwnershipStatus)
	}
}

func TestTransitionLandStatusNotifiesOwner(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	// Landowner cannot transition status.
	if _, err := svc.TransitionLandStatus(ctx, asIdentity(owner), land.ID, models.OwnershipVerified); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("owner transition err = %v, want ErrForbidden", err)
	}

	got, err := svc.TransitionLandStatus(ctx, asIdentity(admin), land.ID, models.OwnershipVerified)
	if err != nil {
		t.Fatalf("admin transition: %v", err)
	}
	if got.OwnershipStatus != models.OwnershipVerified {
		t.Errorf("status = %q", got.OwnershipStatus)
	}

	ns, err := db.ListNotifications(owner.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 1 {
		t.Fatalf("owner has %d notifications, want 1", len(ns))
	}
	if ns[0].Type != models.NotificationSuccess {
		t.Errorf("type = %q, want success", ns[0].Type)
	}
	if !strings.Contains(ns[0].Message, land.Title) {
		t.Errorf("message %q does not reference the record title", ns[0].Message)
	}

	// Unknown status is rejected.
	if _, err := svc.TransitionLandStatus(ctx, asIdentity(admin), land.ID, "archived"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad status err = %v, want ErrInvalid", err)
	}
}

func TestRequestVerification(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin1 := testutil.SeedProfile(t, db, models.RoleAdmin)
	admin2 := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	other := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	// Only the record owner may request.
	if err := svc.RequestVerification(ctx, asIdentity(other), land.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("non-owner request err = %v, want ErrForbidden", err)
	}

	if err := svc.RequestVerification(ctx, asIdentity(owner), land.ID); err != nil {
		t.Fatalf("RequestVerification: %v", err)
	}

	// Every admin gets notified.
	for _, admin := range []*models.Profile{admin1, admin2} {
		ns, err := db.ListNotifications(admin.ID, false)
		if err != nil {
			t.Fatal(err)
		}
		if len(ns) != 1 {
			t.Errorf("admin %s has %d notifications, want 1", admin.ID, len(ns))
		}
	}

	// Already-verified records conflict.
	verified := testutil.SeedLand(t, db, &owner.ID, models.OwnershipVerified)
	if err := svc.RequestVerification(ctx, asIdentity(owner), verified.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("verified request err = %v, want ErrConflict", err)
	}
}

func TestSubmitDocument(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	other := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	in := registry.DocumentInput{LandRecordID: land.ID, DocumentType: models.DocumentDeed, DocumentURL: "/files/deed.pdf"}

	d, err := svc.SubmitDocument(ctx, asIdentity(owner), in)
	if err != nil {
		t.Fatalf("SubmitDocument: %v", err)
	}
	if d.Status != models.DocumentPending {
		t.Errorf("status = %q, want pending", d.Status)
	}
	if d.SubmittedBy != owner.ID {
		t.Errorf("submitted_by = %s", d.SubmittedBy)
	}

	// Submitting against land the caller does not own is forbidden.
	if _, err := svc.SubmitDocument(ctx, asIdentity(other), in); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("foreign land submit err = %v, want ErrForbidden", err)
	}

	// Unknown document type and missing URL are invalid.
	bad := in
	bad.DocumentType = "receipt"
	if _, err := svc.SubmitDocument(ctx, asIdentity(owner), bad); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("bad type err = %v, want ErrInvalid", err)
	}
	bad = in
	bad.DocumentURL = ""
	if _, err := svc.SubmitDocument(ctx, asIdentity(owner), bad); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("missing url err = %v, want ErrInvalid", err)
	}

	// Unknown land record is invalid, not not-found.
	bad = in
	bad.LandRecordID = uuid.New()
	if _, err := svc.SubmitDocument(ctx, asIdentity(owner), bad); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("missing land err = %v, want ErrInvalid", err)
	}
}

func TestReviewDocumentNotifiesSubmitter(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	d, err := svc.SubmitDocument(ctx, asIdentity(owner), registry.DocumentInput{
		LandRecordID: land.ID, DocumentType: models.DocumentDeed, DocumentURL: "/files/deed.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Non-admin cannot review.
	if _, err := svc.ReviewDocument(ctx, asIdentity(owner), d.ID, models.DocumentApproved, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("owner review err = %v, want ErrForbidden", err)
	}

	got, err := svc.ReviewDocument(ctx, asIdentity(admin), d.ID, models.DocumentApproved, "all clear")
	if err != nil {
		t.Fatalf("ReviewDocument: %v", err)
	}
	if got.Status != models.DocumentApproved {
		t.Errorf("status = %q", got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != admin.ID {
		t.Errorf("reviewed_by = %v", got.ReviewedBy)
	}
	if got.Notes != "all clear" {
		t.Errorf("notes = %q", got.Notes)
	}

	// Exactly one notification, referencing the record title.
	ns, err := db.ListNotifications(owner.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 1 {
		t.Fatalf("submitter has %d notifications, want exactly 1", len(ns))
	}
	if ns[0].Title != "Document approved" || ns[0].Type != models.NotificationSuccess {
		t.Errorf("notification = %+v", ns[0])
	}
	if !strings.Contains(ns[0].Message, land.Title) {
		t.Errorf("message %q does not reference land title %q", ns[0].Message, land.Title)
	}

	// Only approved/rejected are valid review outcomes.
	if _, err := svc.ReviewDocument(ctx, asIdentity(admin), d.ID, models.DocumentPending, ""); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("pending review err = %v, want ErrInvalid", err)
	}
}

// noNotifyStore fails every notification insert while leaving the rest
// of the store intact.
type noNotifyStore struct {
	store.Registry
}

func (s noNotifyStore) CreateNotification(*models.Notification) error {
	return errors.New("notifications table unavailable")
}

func TestNotificationFailureDoesNotFailCommittedChange(t *testing.T) {
	db := testutil.TestDB(t)
	svc := registry.NewService(noNotifyStore{db}, nil)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	// The transition commits before the owner is notified, so a broken
	// notification path must not turn the call into an error.
	got, err := svc.TransitionLandStatus(ctx, asIdentity(admin), land.ID, models.OwnershipVerified)
	if err != nil {
		t.Fatalf("transition with broken notifications: %v", err)
	}
	if got.OwnershipStatus != models.OwnershipVerified {
		t.Errorf("status = %q, want verified", got.OwnershipStatus)
	}

	d, err := svc.SubmitDocument(ctx, asIdentity(owner), registry.DocumentInput{
		LandRecordID: land.ID, DocumentType: models.DocumentDeed, DocumentURL: "/api/files/deed.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}
	rd, err := svc.ReviewDocument(ctx, asIdentity(admin), d.ID, models.DocumentApproved, "")
	if err != nil {
		t.Fatalf("review with broken notifications: %v", err)
	}
	if rd.Status != models.DocumentApproved {
		t.Errorf("status = %q, want approved", rd.Status)
	}
}

func TestGetDocumentMasksForbidden(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	stranger := testutil.SeedProfile(t, db, models.RolePublic)
	land := testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	d, err := svc.SubmitDocument(ctx, asIdentity(owner), registry.DocumentInput{
		LandRecordID: land.ID, DocumentType: models.DocumentSurvey, DocumentURL: "/files/s.pdf",
	})
	if err != nil {
		t.Fatal(err)
	}

	// A stranger sees not-found, never forbidden, so document existence
	// does not leak.
	if _, err := svc.GetDocument(ctx, asIdentity(stranger), d.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stranger get err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetDocument(ctx, asIdentity(owner), d.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}
}

func TestCreateTransaction(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	from := testutil.SeedProfile(t, db, models.RoleLandowner)
	to := testutil.SeedProfile(t, db, models.RoleLandowner)
	stranger := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &from.ID, models.OwnershipVerified)

	in := registry.TransactionInput{
		LandRecordID: land.ID, FromOwnerID: from.ID, ToOwnerID: &to.ID,
		TransactionType: models.TransactionSale,
	}

	tx, err := svc.CreateTransaction(ctx, asIdentity(from), in)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.Status != models.TransactionPending {
		t.Errorf("status = %q, want pending", tx.Status)
	}

	// A non-party cannot create on others' behalf.
	if _, err := svc.CreateTransaction(ctx, asIdentity(stranger), in); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("stranger create err = %v, want ErrForbidden", err)
	}

	// Stranger reads get not-found.
	if _, err := svc.GetTransaction(ctx, asIdentity(stranger), tx.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stranger get err = %v, want ErrNotFound", err)
	}
}

func TestSetTransactionStatus(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	from := testutil.SeedProfile(t, db, models.RoleLandowner)
	land := testutil.SeedLand(t, db, &from.ID, models.OwnershipVerified)

	tx, err := svc.CreateTransaction(ctx, asIdentity(from), registry.TransactionInput{
		LandRecordID: land.ID, FromOwnerID: from.ID, TransactionType: models.TransactionTransfer,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Parties cannot move the status themselves.
	if _, err := svc.SetTransactionStatus(ctx, asIdentity(from), tx.ID, models.TransactionApproved); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("party set status err = %v, want ErrForbidden", err)
	}

	got, err := svc.SetTransactionStatus(ctx, asIdentity(admin), tx.ID, models.TransactionApproved)
	if err != nil {
		t.Fatalf("SetTransactionStatus: %v", err)
	}
	if got.Status != models.TransactionApproved {
		t.Errorf("status = %q", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != admin.ID {
		t.Errorf("approved_by = %v", got.ApprovedBy)
	}
}

func TestSendNotification(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	user := testutil.SeedProfile(t, db, models.RolePublic)

	// Only admins can insert directly.
	if err := svc.SendNotification(ctx, asIdentity(user), user.ID, "t", "m", models.NotificationInfo); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("user send err = %v, want ErrForbidden", err)
	}

	if err := svc.SendNotification(ctx, asIdentity(admin), user.ID, "Notice", "Please re-check your parcel boundaries.", models.NotificationWarning); err != nil {
		t.Fatalf("SendNotification: %v", err)
	}

	// Unknown recipient and unknown type are invalid.
	if err := svc.SendNotification(ctx, asIdentity(admin), uuid.New(), "t", "m", models.NotificationInfo); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("unknown recipient err = %v, want ErrInvalid", err)
	}
	if err := svc.SendNotification(ctx, asIdentity(admin), user.ID, "t", "m", "urgent"); !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("unknown type err = %v, want ErrInvalid", err)
	}
}

func TestMarkNotificationsRead(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	alice := testutil.SeedProfile(t, db, models.RolePublic)
	bob := testutil.SeedProfile(t, db, models.RolePublic)

	for i := 0; i < 3; i++ {
		if err := svc.SendNotification(ctx, asIdentity(admin), alice.ID, "t", "m", models.NotificationInfo); err != nil {
			t.Fatal(err)
		}
	}

	ns, err := svc.ListNotifications(ctx, asIdentity(alice), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 3 {
		t.Fatalf("unread = %d, want 3", len(ns))
	}

	// Bob cannot mark Alice's notification read; masked as not-found.
	if err := svc.MarkNotificationRead(ctx, asIdentity(bob), ns[0].ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("bob mark err = %v, want ErrNotFound", err)
	}

	if err := svc.MarkNotificationRead(ctx, asIdentity(alice), ns[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	updated, err := svc.MarkAllNotificationsRead(ctx, asIdentity(alice))
	if err != nil {
		t.Fatal(err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
}

func TestNotifierForwarding(t *testing.T) {
	db := testutil.TestDB(t)
	var delivered []*models.Notification
	svc := registry.NewService(db, func(n *models.Notification) {
		delivered = append(delivered, n)
	})
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	user := testutil.SeedProfile(t, db, models.RolePublic)

	if err := svc.SendNotification(ctx, asIdentity(admin), user.ID, "Ping", "Hello there.", models.NotificationInfo); err != nil {
		t.Fatal(err)
	}
	if len(delivered) != 1 {
		t.Fatalf("delivered = %d, want 1", len(delivered))
	}
	if delivered[0].UserID != user.ID || delivered[0].Title != "Ping" {
		t.Errorf("delivered = %+v", delivered[0])
	}
}

func TestDashboardByRole(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	admin := testutil.SeedProfile(t, db, models.RoleAdmin)
	owner := testutil.SeedProfile(t, db, models.RoleLandowner)
	public := testutil.SeedProfile(t, db, models.RolePublic)

	testutil.SeedLand(t, db, &owner.ID, models.OwnershipVerified)
	testutil.SeedLand(t, db, &owner.ID, models.OwnershipPending)

	d, err := svc.GetDashboard(ctx, asIdentity(admin))
	if err != nil {
		t.Fatalf("admin dashboard: %v", err)
	}
	if d.UserCount != 3 {
		t.Errorf("user count = %d, want 3", d.UserCount)
	}
	if d.LandsByStatus[models.OwnershipVerified] != 1 || d.LandsByStatus[models.OwnershipPending] != 1 {
		t.Errorf("lands by status = %v", d.LandsByStatus)
	}

	d, err = svc.GetDashboard(ctx, asIdentity(owner))
	if err != nil {
		t.Fatalf("owner dashboard: %v", err)
	}
	if d.LandsByStatus[models.OwnershipPending] != 1 {
		t.Errorf("owner lands = %v", d.LandsByStatus)
	}
	if d.UserCount != 0 {
		t.Errorf("owner sees user count %d", d.UserCount)
	}

	d, err = svc.GetDashboard(ctx, asIdentity(public))
	if err != nil {
		t.Fatalf("public dashboard: %v", err)
	}
	if d.VerifiedLands != 1 {
		t.Errorf("verified lands = %d, want 1", d.VerifiedLands)
	}
}
