package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/marlowe/cadastr/internal/files"
)

const maxUploadBytes = 50 << 20 // 50 MB

// UploadHandler accepts and serves stored document files.
type UploadHandler struct {
	store *files.Store
}

// NewUploadHandler creates a handler over the uploads store.
func NewUploadHandler(store *files.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload handles POST /api/files (multipart/form-data, field "file").
// Files are stored under a generated name so one caller can never
// replace the content behind another caller's document URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	original := filepath.Base(header.Filename)
	if original == "" || original == "." || original == ".." {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid filename"))
		return
	}
	stored := uuid.NewString() + "-" + original

	written, err := h.store.Save(stored, file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"filename": stored,
		"original": original,
		"size":     written,
		"url":      files.URLPrefix + stored,
	})
}

// ServeFile handles GET /api/files/{filename}.
func (h *UploadHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.store.SafePath(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
