package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/auth"
	"github.com/marlowe/cadastr/internal/registry"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	auth *auth.Service
	reg  *registry.Service
}

// NewHandler creates a new Handler.
func NewHandler(authSvc *auth.Service, reg *registry.Service) *Handler {
	return &Handler{auth: authSvc, reg: reg}
}

// validator is implemented by request DTOs that validate themselves.
type validator interface {
	Validate() error
}

// decodeJSON reads a bounded JSON body into v and runs its validation.
// Returns false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if val, ok := v.(validator); ok {
		if err := val.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return false
		}
	}
	return true
}

// pathID parses the {id} URL parameter as a UUID. Returns false after
// writing the error response.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
