package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// ListNotifications returns the caller's own notifications.
func (s *Service) ListNotifications(_ context.Context, caller policy.Identity, unreadOnly bool) ([]models.Notification, error) {
	if caller.ID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.db.ListNotifications(caller.ID, unreadOnly)
}

// MarkNotificationRead flags one of the caller's notifications as read.
func (s *Service) MarkNotificationRead(_ context.Context, caller policy.Identity, id uuid.UUID) error {
	n, err := s.db.GetNotification(id)
	if err != nil {
		return err
	}
	if !policy.CanReadNotification(caller, n) {
		return apperr.ErrNotFound
	}
	return s.db.MarkNotificationRead(id)
}

// MarkAllNotificationsRead flags every unread notification of the
// caller as read and returns the number of rows affected. Other
// users' rows are never touched.
func (s *Service) MarkAllNotificationsRead(_ context.Context, caller policy.Identity) (int, error) {
	if caller.ID == uuid.Nil {
		return 0, apperr.ErrUnauthorized
	}
	return s.db.MarkAllNotificationsRead(caller.ID)
}

// SendNotification lets an admin message a user directly. Non-admin
// callers are rejected: regular notifications are system-initiated.
func (s *Service) SendNotification(_ context.Context, caller policy.Identity, userID uuid.UUID, title, message, typ string) error {
	if !policy.CanInsertNotification(caller) {
		return apperr.ErrForbidden
	}
	switch typ {
	case models.NotificationInfo, models.NotificationWarning,
		models.NotificationSuccess, models.NotificationError:
	default:
		return apperr.ErrInvalid
	}
	if title == "" || message == "" {
		return apperr.ErrInvalid
	}
	if _, err := s.db.GetProfile(userID); err != nil {
		return apperr.ErrInvalid
	}
	return s.createNotification(userID, title, message, typ)
}
