// Package models defines the domain types for Cadastr.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access tier of a profile.
type Role string

// Roles.
const (
	RoleAdmin     Role = "admin"
	RoleLandowner Role = "landowner"
	RolePublic    Role = "public"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleLandowner || r == RolePublic
}

// Ownership statuses of a land record.
const (
	OwnershipVerified = "verified"
	OwnershipPending  = "pending"
	OwnershipDisputed = "disputed"
)

// Document types.
const (
	DocumentDeed        = "deed"
	DocumentSurvey      = "survey"
	DocumentCertificate = "certificate"
	DocumentOther       = "other"
)

// Document statuses.
const (
	DocumentPending  = "pending"
	DocumentApproved = "approved"
	DocumentRejected = "rejected"
)

// Transaction types.
const (
	TransactionSale        = "sale"
	TransactionTransfer    = "transfer"
	TransactionInheritance = "inheritance"
)

// Transaction statuses.
const (
	TransactionPending   = "pending"
	TransactionApproved  = "approved"
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
)

// Notification types.
const (
	NotificationInfo    = "info"
	NotificationWarning = "warning"
	NotificationSuccess = "success"
	NotificationError   = "error"
)

// Profile is the identity record behind an authenticated user.
// PasswordHash never leaves the service.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LandRecord is a registered parcel.
type LandRecord struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Location        string     `json:"location"`
	Coordinates     string     `json:"coordinates,omitempty"`
	Size            float64    `json:"size"`
	SizeUnit        string     `json:"size_unit"`
	OwnershipStatus string     `json:"ownership_status"`
	Zoning          string     `json:"zoning"`
	Price           *float64   `json:"price,omitempty"`
	Description     string     `json:"description,omitempty"`
	OwnerID         *uuid.UUID `json:"owner_id,omitempty"`
	VerifiedBy      *uuid.UUID `json:"verified_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OwnershipDocument is evidence submitted against a land record.
type OwnershipDocument struct {
	ID           uuid.UUID  `json:"id"`
	LandRecordID uuid.UUID  `json:"land_record_id"`
	DocumentType string     `json:"document_type"`
	DocumentURL  string     `json:"document_url"`
	Status       string     `json:"status"`
	SubmittedBy  uuid.UUID  `json:"submitted_by"`
	ReviewedBy   *uuid.UUID `json:"reviewed_by,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Transaction is a proposed ownership change on a land record.
type Transaction struct {
	ID              uuid.UUID  `json:"id"`
	LandRecordID    uuid.UUID  `json:"land_record_id"`
	FromOwnerID     uuid.UUID  `json:"from_owner_id"`
	ToOwnerID       *uuid.UUID `json:"to_owner_id,omitempty"`
	TransactionType string     `json:"transaction_type"`
	Amount          *float64   `json:"amount,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Notification is a user-facing message.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ZoningLaw is admin-managed reference data.
type ZoningLaw struct {
	ID          uuid.UUID `json:"id"`
	ZoneType    string    `json:"zone_type"`
	Description string    `json:"description"`
	Regulations string    `json:"regulations"`
	CreatedAt   time.Time `json:"created_at"`
}
