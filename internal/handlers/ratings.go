package handlers

import (
	"net/http"
)

type rateProductRequest struct {
	Name  string `json:"name"`
	Grade int    `json:"grade"`
	Body  string `json:"body"`
}

// RatingCreate handles POST /api/products/{productID}/ratings.
func (h *Handlers) RatingCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req rateProductRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	summary, err := h.ratingService.Rate(ctx, sessionKey(r), productID, req.Name, req.Grade, req.Body)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusCreated, map[string]any{"rating": summary})
}

// RatingList handles GET /api/products/{productID}/ratings.
func (h *Handlers) RatingList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ratings, err := h.ratingService.ListByProduct(ctx, productID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	summary, err := h.ratingService.Summary(ctx, productID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	h.respondJSON(ctx, w, http.StatusOK, map[string]any{
		"ratings": ratings,
		"summary": summary,
	})
}
