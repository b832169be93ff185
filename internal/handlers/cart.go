package handlers

import (
	"net/http"
)

type addCartLineRequest struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type updateCartLineRequest struct {
	Quantity int `json:"quantity"`
}

// CartAdd handles POST /api/cart.
func (h *Handlers) CartAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addCartLineRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	lines, err := h.cartService.AddLine(ctx, sessionKey(r), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusCreated, map[string]any{"lines": lines})
}

// CartList handles GET /api/cart.
func (h *Handlers) CartList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lines, err := h.cartService.ListLines(ctx, sessionKey(r))
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"lines": lines})
}

// CartRemove handles DELETE /api/cart/{lineID}.
func (h *Handlers) CartRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID, err := pathID(r, "lineID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	lines, err := h.cartService.RemoveLine(ctx, sessionKey(r), lineID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"lines": lines})
}

// CartUpdateQuantity handles PATCH /api/cart/{lineID}.
func (h *Handlers) CartUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lineID, err := pathID(r, "lineID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req updateCartLineRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	line, err := h.cartService.UpdateQuantity(ctx, sessionKey(r), lineID, req.Quantity)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"line": line})
}
