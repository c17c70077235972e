package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/models"
)

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Validate validates the signup request.
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Role, validation.Required,
			validation.In(string(models.RoleLandowner), string(models.RolePublic))),
	)
}

// SignInRequest is the request body for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the signin request.
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest carries a refresh token for POST /auth/refresh and
// POST /auth/signout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate validates the refresh request.
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// UpdateProfileRequest is the request body for PUT /me.
type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

// SessionResponse is returned by signin, refresh, and GET /me.
type SessionResponse struct {
	Profile *models.Profile `json:"profile"`
	Landing string          `json:"landing"`
	Tokens  any             `json:"tokens,omitempty"`
}

// LandRequest is the request body for creating or updating a land record.
type LandRequest struct {
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Coordinates string     `json:"coordinates"`
	Size        float64    `json:"size"`
	SizeUnit    string     `json:"size_unit"`
	Zoning      string     `json:"zoning"`
	Price       *float64   `json:"price"`
	Description string     `json:"description"`
	OwnerID     *uuid.UUID `json:"owner_id"`
}

// Validate validates the land request.
func (r LandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Location, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Size, validation.Required, validation.Min(0.0).Exclusive()),
	)
}

// StatusRequest carries a single status transition value.
type StatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the status request.
func (r StatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required),
	)
}

// DocumentRequest is the request body for submitting a document.
type DocumentRequest struct {
	LandRecordID uuid.UUID `json:"land_record_id"`
	DocumentType string    `json:"document_type"`
	DocumentURL  string    `json:"document_url"`
}

// Validate validates the document request.
func (r DocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentType, validation.Required,
			validation.In(models.DocumentDeed, models.DocumentSurvey,
				models.DocumentCertificate, models.DocumentOther)),
		validation.Field(&r.DocumentURL, validation.Required),
	)
}

// ReviewRequest is the request body for reviewing a document.
type ReviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// Validate validates the review request.
func (r ReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(models.DocumentApproved, models.DocumentRejected)),
	)
}

// TransactionRequest is the request body for proposing a transaction.
type TransactionRequest struct {
	LandRecordID    uuid.UUID  `json:"land_record_id"`
	FromOwnerID     uuid.UUID  `json:"from_owner_id"`
	ToOwnerID       *uuid.UUID `json:"to_owner_id"`
	TransactionType string     `json:"transaction_type"`
	Amount          *float64   `json:"amount"`
}

// Validate validates the transaction request.
func (r TransactionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TransactionType, validation.Required,
			validation.In(models.TransactionSale, models.TransactionTransfer,
				models.TransactionInheritance)),
	)
}

// NotificationRequest is the request body for the admin notification
// endpoint.
type NotificationRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
}

// Validate validates the notification request.
func (r NotificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Message, validation.Required),
		validation.Field(&r.Type, validation.Required,
			validation.In(models.NotificationInfo, models.NotificationWarning,
				models.NotificationSuccess, models.NotificationError)),
	)
}

// ZoningRequest is the request body for creating or updating a zoning law.
type ZoningRequest struct {
	ZoneType    string `json:"zone_type"`
	Description string `json:"description"`
	Regulations string `json:"regulations"`
}

// Validate validates the zoning request.
func (r ZoningRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ZoneType, validation.Required, validation.Length(1, 100)),
	)
}
