package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

// Registry defines the interface for land registry storage operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type Registry interface {
	CreateProfile(p *models.Profile) error
	GetProfile(id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(email string) (*models.Profile, error)
	ListProfiles() ([]models.Profile, error)
	ListAdminIDs() ([]uuid.UUID, error)
	UpdateProfile(p *models.Profile) error
	CountProfiles() (int, error)

	CreateLand(l *models.LandRecord) error
	GetLand(id uuid.UUID) (*models.LandRecord, error)
	ListLands(f LandFilter) ([]models.LandRecord, int, error)
	UpdateLand(l *models.LandRecord) error
	DeleteLand(id uuid.UUID) error
	TransitionLandStatus(id uuid.UUID, status string, verifiedBy uuid.UUID, now time.Time) error
	CountLandsByStatus(ownerID *uuid.UUID) (map[string]int, error)
	SearchVerifiedLands(query string, limit int) ([]LandSearchResult, error)

	CreateDocument(d *models.OwnershipDocument) error
	GetDocument(id uuid.UUID) (*models.OwnershipDocument, error)
	ListDocuments(viewer policy.Identity, f DocumentFilter) ([]models.OwnershipDocument, error)
	ReviewDocument(id uuid.UUID, status string, reviewedBy uuid.UUID, notes string) error
	CountDocumentsByStatus(submittedBy *uuid.UUID) (map[string]int, error)
	AllDocumentURLs() ([]string, error)

	CreateTransaction(t *models.Transaction) error
	GetTransaction(id uuid.UUID) (*models.Transaction, error)
	ListTransactions(viewer policy.Identity) ([]models.Transaction, error)
	SetTransactionStatus(id uuid.UUID, status string, approvedBy uuid.UUID) error
	CountTransactionsByStatus() (map[string]int, error)

	CreateNotification(n *models.Notification) error
	GetNotification(id uuid.UUID) (*models.Notification, error)
	ListNotifications(userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkNotificationRead(id uuid.UUID) error
	MarkAllNotificationsRead(userID uuid.UUID) (int, error)
	CountUnreadNotifications(userID uuid.UUID) (int, error)

	CreateZoningLaw(z *models.ZoningLaw) error
	GetZoningLaw(id uuid.UUID) (*models.ZoningLaw, error)
	ListZoningLaws() ([]models.ZoningLaw, error)
	UpdateZoningLaw(z *models.ZoningLaw) error
	DeleteZoningLaw(id uuid.UUID) error

	CreateSession(s *Session) error
	GetSession(tokenHash string) (*Session, error)
	RevokeSession(tokenHash string) error
	DeleteExpiredSessions(now time.Time) error

	Close() error
}

// Verify *DB satisfies Registry at compile time.
var _ Registry = (*DB)(nil)
