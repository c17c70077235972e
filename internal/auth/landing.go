package auth

import "github.com/marlowe/cadastr/internal/models"

// Landing areas a signed-in client is dispatched to.
const (
	LandingAdmin     = "admin"
	LandingLandowner = "landowner"
	LandingPublic    = "public"
	LandingAuth      = "auth"
)

// Landing maps a profile role to the screen set a client should show.
// An unrecognized role falls back to the authentication screen.
func Landing(p *models.Profile) string {
	if p == nil {
		return LandingAuth
	}
	switch p.Role {
	case models.RoleAdmin:
		return LandingAdmin
	case models.RoleLandowner:
		return LandingLandowner
	case models.RolePublic:
		return LandingPublic
	default:
		return LandingAuth
	}
}
