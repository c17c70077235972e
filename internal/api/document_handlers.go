package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/registry"
	"github.com/marlowe/cadastr/internal/store"
)

// ListDocuments handles GET /api/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.DocumentFilter{Status: q.Get("status")}
	if raw := q.Get("land_record_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid land_record_id"))
			return
		}
		f.LandRecordID = &id
	}

	docs, err := h.reg.ListDocuments(r.Context(), identityFrom(r), f)
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// GetDocument handles GET /api/documents/{id}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.reg.GetDocument(r.Context(), identityFrom(r), id)
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// SubmitDocument handles POST /api/documents.
func (h *Handler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.reg.SubmitDocument(r.Context(), identityFrom(r), registry.DocumentInput{
		LandRecordID: req.LandRecordID,
		DocumentType: req.DocumentType,
		DocumentURL:  req.DocumentURL,
	})
	if err != nil {
		writeError(w, "submit document", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// ReviewDocument handles PUT /api/documents/{id}/review.
func (h *Handler) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	d, err := h.reg.ReviewDocument(r.Context(), identityFrom(r), id, req.Status, req.Notes)
	if err != nil {
		writeError(w, "review document", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
