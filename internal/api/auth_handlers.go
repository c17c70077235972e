package api

import (
	"net/http"

	"github.com/marlowe/cadastr/internal/auth"
	"github.com/marlowe/cadastr/internal/models"
)

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName, models.Role(req.Role))
	if err != nil {
		writeError(w, "signup", err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{Profile: p, Landing: auth.Landing(p)})
}

// SignIn handles POST /api/auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, tokens, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, "signin", err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Profile: p, Landing: auth.Landing(p), Tokens: tokens})
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, tokens, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, "refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Profile: p, Landing: auth.Landing(p), Tokens: tokens})
}

// SignOut handles POST /api/auth/signout.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.auth.SignOut(r.Context(), req.RefreshToken); err != nil {
		writeError(w, "signout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p := profileFrom(r)
	writeJSON(w, http.StatusOK, SessionResponse{Profile: p, Landing: auth.Landing(p)})
}

// UpdateMe handles PUT /api/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.auth.UpdateProfile(r.Context(), identityFrom(r), req.FullName, req.Phone)
	if err != nil {
		writeError(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ListProfiles handles GET /api/profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.reg.ListProfiles(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, "list profiles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

// GetProfile handles GET /api/profiles/{id}.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.reg.GetProfile(r.Context(), identityFrom(r), id)
	if err != nil {
		writeError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
