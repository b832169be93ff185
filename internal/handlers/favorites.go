package handlers

import (
	"net/http"
)

type addFavoriteRequest struct {
	ProductID int64 `json:"product_id"`
}

// FavoriteAdd handles POST /api/favorites.
func (h *Handlers) FavoriteAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addFavoriteRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.favoriteService.Add(ctx, sessionKey(r), req.ProductID); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FavoriteList handles GET /api/favorites.
func (h *Handlers) FavoriteList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	favorites, err := h.favoriteService.List(ctx, sessionKey(r))
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"favorites": favorites})
}

// FavoriteRemove handles DELETE /api/favorites/{productID}.
func (h *Handlers) FavoriteRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.favoriteService.Remove(ctx, sessionKey(r), productID); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
