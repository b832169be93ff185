package handlers

import (
	"net/http"

	"github.com/rugstoreapp/rugstore/internal/models"
)

type createOrderRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Delivery string `json:"delivery"`
	Pay      string `json:"pay"`
}

type createOrderOneRequest struct {
	createOrderRequest
	ProductID      int64  `json:"product_id"`
	Size           string `json:"size"`
	Quantity       int    `json:"quantity"`
	PolicyAccepted bool   `json:"policy_accepted"`
}

func (req *createOrderRequest) contact() models.Contact {
	return models.Contact{
		Email:   req.Email,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
}

// OrderCreate handles POST /api/orders, turning the session's cart into an
// order.
func (h *Handlers) OrderCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, items, err := h.checkoutService.Consolidate(ctx, sessionKey(r), req.contact(), req.Delivery, req.Pay)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusCreated, map[string]any{
		"order": order,
		"items": items,
	})
}

// OrderCreateOne handles POST /api/orders/direct, buying a single product
// without touching the cart.
func (h *Handlers) OrderCreateOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createOrderOneRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	order, items, err := h.checkoutService.ConsolidateOne(ctx, req.ProductID, req.Size, req.Quantity, req.contact(), req.Delivery, req.Pay, req.PolicyAccepted)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusCreated, map[string]any{
		"order": order,
		"items": items,
	})
}
