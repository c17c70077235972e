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

// DocumentInput carries the caller-settable fields of a document.
type DocumentInput struct {
	LandRecordID uuid.UUID
	DocumentType string
	DocumentURL  string
}

// ListDocuments returns the documents visible to the viewer.
func (s *Service) ListDocuments(_ context.Context, viewer policy.Identity, f store.DocumentFilter) ([]models.OwnershipDocument, error) {
	if viewer.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.db.ListDocuments(viewer, f)
}

// GetDocument returns one document if the viewer may read it.
func (s *Service) GetDocument(_ context.Context, viewer policy.Identity, id uuid.UUID) (*models.OwnershipDocument, error) {
	d, err := s.db.GetDocument(id)
	if err != nil {
		return nil, err
	}
	land, err := s.db.GetLand(d.LandRecordID)
	if err != nil {
		land = nil
	}
	if !policy.CanReadDocument(viewer, d, land) {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

// SubmitDocument files ownership evidence against a land record. The
// submitter must own the referenced record; the document starts pending.
func (s *Service) SubmitDocument(_ context.Context, caller policy.Identity, in DocumentInput) (*models.OwnershipDocument, error) {
	switch in.DocumentType {
	case models.DocumentDeed, models.DocumentSurvey, models.DocumentCertificate, models.DocumentOther:
	default:
		return nil, apperr.ErrInvalid
	}
	if in.DocumentURL == "" {
		return nil, apperr.ErrInvalid
	}

	land, err := s.db.GetLand(in.LandRecordID)
	if err != nil {
		return nil, apperr.ErrInvalid
	}

	d := &models.OwnershipDocument{
		ID:           uuid.New(),
		LandRecordID: in.LandRecordID,
		DocumentType: in.DocumentType,
		DocumentURL:  in.DocumentURL,
		Status:       models.DocumentPending,
		SubmittedBy:  caller.ID,
		CreatedAt:    s.now().UTC(),
	}
	if !policy.CanSubmitDocument(caller, d, land) {
		return nil, apperr.ErrForbidden
	}
	if err := s.db.CreateDocument(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReviewDocument approves or rejects a pending document. Admin only;
// the submitter receives exactly one notification referencing the
// land record's title.
func (s *Service) ReviewDocument(_ context.Context, caller policy.Identity, id uuid.UUID, status, notes string) (*models.OwnershipDocument, error) {
	if !policy.CanReviewDocument(caller) {
		return nil, apperr.ErrForbidden
	}
	if status != models.DocumentApproved && status != models.DocumentRejected {
		return nil, apperr.ErrInvalid
	}
	d, err := s.db.GetDocument(id)
	if err != nil {
		return nil, err
	}
	land, err := s.db.GetLand(d.LandRecordID)
	if err != nil {
		return nil, err
	}

	if err := s.db.ReviewDocument(id, status, caller.ID, notes); err != nil {
		return nil, err
	}

	title := "Document approved"
	typ := models.NotificationSuccess
	if status == models.DocumentRejected {
		title = "Document rejected"
		typ = models.NotificationWarning
	}
	msg := fmt.Sprintf("Your %s for land record %q was %s.", d.DocumentType, land.Title, status)
	// The review is already committed; notifying the submitter is
	// best-effort from here on.
	if err := s.createNotification(d.SubmittedBy, title, msg, typ); err != nil {
		slog.Error("notify submitter of review", "document_id", id, "error", err)
	}

	return s.db.GetDocument(id)
}
