package api

import (
	"net/http"

	"github.com/marlowe/cadastr/internal/registry"
)

// ListTransactions handles GET /api/transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.reg.ListTransactions(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, "list transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

// GetTransaction handles GET /api/transactions/{id}.
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.reg.GetTransaction(r.Context(), identityFrom(r), id)
	if err != nil {
		writeError(w, "get transaction", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTransaction handles POST /api/transactions.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.reg.CreateTransaction(r.Context(), identityFrom(r), registry.TransactionInput{
		LandRecordID:    req.LandRecordID,
		FromOwnerID:     req.FromOwnerID,
		ToOwnerID:       req.ToOwnerID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
	})
	if err != nil {
		writeError(w, "create transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// SetTransactionStatus handles PUT /api/transactions/{id}/status.
func (h *Handler) SetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.reg.SetTransactionStatus(r.Context(), identityFrom(r), id, req.Status)
	if err != nil {
		writeError(w, "set transaction status", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListNotifications handles GET /api/notifications.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := h.reg.ListNotifications(r.Context(), identityFrom(r), unreadOnly)
	if err != nil {
		writeError(w, "list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": ns})
}

// MarkNotificationRead handles PUT /api/notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.reg.MarkNotificationRead(r.Context(), identityFrom(r), id); err != nil {
		writeError(w, "mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.reg.MarkAllNotificationsRead(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, "mark all notifications read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": n})
}

// SendNotification handles POST /api/notifications (admin only).
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.reg.SendNotification(r.Context(), identityFrom(r), req.UserID, req.Title, req.Message, req.Type)
	if err != nil {
		writeError(w, "send notification", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ListZoningLaws handles GET /api/zoning-laws. Anonymous.
func (h *Handler) ListZoningLaws(w http.ResponseWriter, r *http.Request) {
	laws, err := h.reg.ListZoningLaws(r.Context())
	if err != nil {
		writeError(w, "list zoning laws", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zoning_laws": laws})
}

// CreateZoningLaw handles POST /api/zoning-laws.
func (h *Handler) CreateZoningLaw(w http.ResponseWriter, r *http.Request) {
	var req ZoningRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	z, err := h.reg.CreateZoningLaw(r.Context(), identityFrom(r), registry.ZoningInput{
		ZoneType:    req.ZoneType,
		Description: req.Description,
		Regulations: req.Regulations,
	})
	if err != nil {
		writeError(w, "create zoning law", err)
		return
	}
	writeJSON(w, http.StatusCreated, z)
}

// UpdateZoningLaw handles PUT /api/zoning-laws/{id}.
func (h *Handler) UpdateZoningLaw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ZoningRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	z, err := h.reg.UpdateZoningLaw(r.Context(), identityFrom(r), id, registry.ZoningInput{
		ZoneType:    req.ZoneType,
		Description: req.Description,
		Regulations: req.Regulations,
	})
	if err != nil {
		writeError(w, "update zoning law", err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// DeleteZoningLaw handles DELETE /api/zoning-laws/{id}.
func (h *Handler) DeleteZoningLaw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.reg.DeleteZoningLaw(r.Context(), identityFrom(r), id); err != nil {
		writeError(w, "delete zoning law", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
