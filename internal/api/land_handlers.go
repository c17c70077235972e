package api

import (
	"net/http"
	"strconv"

	"github.com/marlowe/cadastr/internal/registry"
	"github.com/marlowe/cadastr/internal/store"
)

// ListLands handles GET /api/lands with filter and sort parameters.
func (h *Handler) ListLands(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.LandFilter{
		Query:  q.Get("q"),
		Status: q.Get("status"),
		Zoning: q.Get("zoning"),
		Sort:   q.Get("sort"),
	}
	f.MinPrice = floatParam(q.Get("min_price"))
	f.MaxPrice = floatParam(q.Get("max_price"))
	f.MinSize = floatParam(q.Get("min_size"))
	f.MaxSize = floatParam(q.Get("max_size"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))
	if q.Get("mine") == "true" {
		id := identityFrom(r).ID
		f.OwnerID = &id
	}

	lands, total, err := h.reg.ListLands(r.Context(), identityFrom(r), f)
	if err != nil {
		writeError(w, "list lands", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lands": lands,
		"total": total,
	})
}

// GetLand handles GET /api/lands/{id}.
func (h *Handler) GetLand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := h.reg.GetLand(r.Context(), identityFrom(r), id)
	if err != nil {
		writeError(w, "get land", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// CreateLand handles POST /api/lands.
func (h *Handler) CreateLand(w http.ResponseWriter, r *http.Request) {
	var req LandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.reg.CreateLand(r.Context(), identityFrom(r), landInput(req))
	if err != nil {
		writeError(w, "create land", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// UpdateLand handles PUT /api/lands/{id}.
func (h *Handler) UpdateLand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req LandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.reg.UpdateLand(r.Context(), identityFrom(r), id, landInput(req))
	if err != nil {
		writeError(w, "update land", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// DeleteLand handles DELETE /api/lands/{id}.
func (h *Handler) DeleteLand(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.reg.DeleteLand(r.Context(), identityFrom(r), id); err != nil {
		writeError(w, "delete land", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TransitionLandStatus handles PUT /api/lands/{id}/status.
func (h *Handler) TransitionLandStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	l, err := h.reg.TransitionLandStatus(r.Context(), identityFrom(r), id, req.Status)
	if err != nil {
		writeError(w, "transition land status", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// RequestVerification handles POST /api/lands/{id}/verification-request.
func (h *Handler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.reg.RequestVerification(r.Context(), identityFrom(r), id); err != nil {
		writeError(w, "request verification", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Search handles GET /api/search over verified records. Anonymous.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.reg.SearchVerified(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reg.GetDashboard(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func landInput(req LandRequest) registry.LandInput {
	return registry.LandInput{
		Title:       req.Title,
		Location:    req.Location,
		Coordinates: req.Coordinates,
		Size:        req.Size,
		SizeUnit:    req.SizeUnit,
		Zoning:      req.Zoning,
		Price:       req.Price,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	}
}

func floatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
