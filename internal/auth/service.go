// Package auth implements the authentication and session lifecycle:
// bcrypt credential storage, JWT access tokens, and persisted,
// revocable refresh sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marlowe/cadastr/internal/apperr"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
	"github.com/marlowe/cadastr/internal/store"
)

// ErrInvalidCredentials is returned when email/password verification fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Tokens is the credential pair issued on sign-in and refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Service implements signup, signin, refresh, and signout.
type Service struct {
	db         store.Registry
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService creates an auth service backed by the registry store.
func NewService(db store.Registry, secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		db:         db,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// SignUp registers a new profile. Only landowner and public roles are
// accepted; admins are bootstrapped, never self-registered.
func (s *Service) SignUp(_ context.Context, email, password, fullName string, role models.Role) (*models.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || fullName == "" {
		return nil, apperr.ErrInvalid
	}
	if len(password) < 8 {
		return nil, apperr.ErrInvalid
	}
	if role != models.RoleLandowner && role != models.RolePublic {
		return nil, apperr.ErrInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	p := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.db.CreateProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// SignIn verifies credentials and opens a new session.
func (s *Service) SignIn(_ context.Context, email, password string) (*models.Profile, *Tokens, error) {
	p, err := s.db.GetProfileByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.openSession(p)
	if err != nil {
		return nil, nil, err
	}
	return p, tokens, nil
}

// Refresh exchanges a live refresh token for a fresh token pair. The
// used refresh token is revoked (rotation).
func (s *Service) Refresh(_ context.Context, refreshToken string) (*models.Profile, *Tokens, error) {
	sess, err := s.db.GetSession(hashToken(refreshToken))
	if err != nil {
		return nil, nil, apperr.ErrUnauthorized
	}
	if sess.Revoked || s.now().After(sess.ExpiresAt) {
		return nil, nil, apperr.ErrUnauthorized
	}
	p, err := s.db.GetProfile(sess.UserID)
	if err != nil {
		return nil, nil, apperr.ErrUnauthorized
	}
	if err := s.db.RevokeSession(sess.TokenHash); err != nil {
		return nil, nil, err
	}
	tokens, err := s.openSession(p)
	if err != nil {
		return nil, nil, err
	}
	return p, tokens, nil
}

// SignOut revokes the refresh session. Idempotent.
func (s *Service) SignOut(_ context.Context, refreshToken string) error {
	return s.db.RevokeSession(hashToken(refreshToken))
}

// Authenticate resolves a bearer access token to an identity and its
// profile. The profile fetch keeps role changes effective without
// waiting for token expiry.
func (s *Service) Authenticate(_ context.Context, accessToken string) (policy.Identity, *models.Profile, error) {
	userID, _, err := parseAccessToken(s.secret, accessToken)
	if err != nil {
		return policy.Identity{}, nil, apperr.ErrUnauthorized
	}
	p, err := s.db.GetProfile(userID)
	if err != nil {
		return policy.Identity{}, nil, apperr.ErrUnauthorized
	}
	return policy.Identity{ID: p.ID, Role: p.Role}, p, nil
}

// UpdateProfile updates the caller's own full name and phone.
func (s *Service) UpdateProfile(_ context.Context, id policy.Identity, fullName, phone string) (*models.Profile, error) {
	p, err := s.db.GetProfile(id.ID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateProfile(id, p) {
		return nil, apperr.ErrForbidden
	}
	if fullName != "" {
		p.FullName = fullName
	}
	p.Phone = phone
	if err := s.db.UpdateProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// BootstrapAdmin seeds an admin profile when no profile with the
// given email exists. Returns the profile either way.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password string) (*models.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if existing, err := s.db.GetProfileByEmail(email); err == nil {
		return existing, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	p := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Registry Administrator",
		Role:         models.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.db.CreateProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) openSession(p *models.Profile) (*Tokens, error) {
	now := s.now().UTC()
	access, err := issueAccessToken(s.secret, p.ID, p.Role, now, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, hash, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateSession(&store.Session{
		TokenHash: hash,
		UserID:    p.ID,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}
