// Package api implements the Cadastr REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/marlowe/cadastr/internal/auth"
	"github.com/marlowe/cadastr/internal/models"
	"github.com/marlowe/cadastr/internal/policy"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	profileKey
)

// AuthMiddleware returns middleware that resolves a Bearer access
// token to an identity and profile and injects both into the request
// context. Requests without a valid token are rejected; the policy
// layer downstream decides what the identity may touch.
func AuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			id, profile, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = context.WithValue(ctx, profileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityFrom returns the authenticated identity of the request.
func identityFrom(r *http.Request) policy.Identity {
	id, _ := r.Context().Value(identityKey).(policy.Identity)
	return id
}

// profileFrom returns the authenticated profile of the request.
func profileFrom(r *http.Request) *models.Profile {
	p, _ := r.Context().Value(profileKey).(*models.Profile)
	return p
}
