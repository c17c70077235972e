// Package registry coordinates store, policy, and notification
// side effects for the land registry domain.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/store"
)

// Notifier receives every notification the service creates, so
// transports (SSE) can push them to connected clients. May be nil.
type Notifier func(n *models.Notification)

// Service implements the policy-enforced registry operations.
type Service struct {
	db     store.Registry
	notify Notifier
	now    func() time.Time
}

// NewService creates a registry service. notify may be nil.
func NewService(db store.Registry, notify Notifier) *Service {
	return &Service{db: db, notify: notify, now: time.Now}
}

// createNotification persists a notification and forwards it to the
// notifier. System-initiated actions funnel through here.
func (s *Service) createNotification(userID uuid.UUID, title, message, typ string) error {
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.CreateNotification(n); err != nil {
		return err
	}
	if s.notify != nil {
		s.notify(n)
	}
	return nil
}
