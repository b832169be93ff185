package handlers

import (
	"errors"
	"net/http"

	"github.com/rugstoreapp/rugstore/internal/db"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin handles POST /api/admin/login, exchanging the admin password
// for a bearer token used on catalog mutation routes.
func (h *Handlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req adminLoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]string{"token": token})
}

type orderView struct {
	*db.Order
	Items []db.OrderItem `json:"items"`
}

// AdminOrderList handles GET /api/admin/orders, returning the newest orders
// with their item snapshots for the operator view.
func (h *Handlers) AdminOrderList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > maxPageSize {
		limit = 50
	}

	orders, itemsByOrder, err := h.orderStore.ListRecent(ctx, limit)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		items := itemsByOrder[order.ID]
		if items == nil {
			items = []db.OrderItem{}
		}
		views = append(views, orderView{Order: order, Items: items})
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"orders": views})
}

// AdminOrderGet handles GET /api/admin/orders/{orderID}.
func (h *Handlers) AdminOrderGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := pathID(r, "orderID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	order, items, err := h.orderStore.GetByID(ctx, orderID)
	if errors.Is(err, db.ErrNotFound) {
		h.respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, orderView{Order: order, Items: items})
}
