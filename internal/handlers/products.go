package handlers

import (
	"net/http"
	"strconv"

	"github.com/rugstoreapp/rugstore/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductList handles GET /api/products with limit/offset paging.
func (h *Handlers) ProductList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", defaultPageSize)
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	products, total, err := h.productService.List(ctx, limit, offset)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{
		"products": products,
		"total":    total,
	})
}

// ProductNewest handles GET /api/products/newest.
func (h *Handlers) ProductNewest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit", 8)
	if limit < 1 || limit > maxPageSize {
		limit = 8
	}

	products, err := h.productService.ListNewest(ctx, limit)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{"products": products})
}

// ProductGet handles GET /api/products/{productID}, including the rating
// summary shown on the product page.
func (h *Handlers) ProductGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.productService.Get(ctx, productID)
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
		"product": product,
		"rating":  summary,
	})
}

type productRequest struct {
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Discount    int      `json:"discount"`
	Sizes       []string `json:"sizes"`
	Images      []string `json:"images"`
	Composition string   `json:"composition"`
	Backing     string   `json:"backing"`
	PileHeight  string   `json:"pile_height"`
	Density     string   `json:"density"`
	Origin      string   `json:"origin"`
	Description string   `json:"description"`
}

func (req *productRequest) model() *models.Product {
	return &models.Product{
		Name:        req.Name,
		Price:       req.Price,
		Discount:    req.Discount,
		Sizes:       req.Sizes,
		ImageURLs:   req.Images,
		Composition: req.Composition,
		Backing:     req.Backing,
		PileHeight:  req.PileHeight,
		Density:     req.Density,
		Origin:      req.Origin,
		Description: req.Description,
	}
}

// ProductCreate handles POST /api/admin/products.
func (h *Handlers) ProductCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req productRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product := req.model()
	if err := h.productService.Create(ctx, product); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	h.respondJSON(ctx, w, http.StatusCreated, map[string]any{"product": product})
}

// ProductUpdate handles PUT /api/admin/products/{productID}. The response
// reports the cart lines evicted because their size is no longer offered.
func (h *Handlers) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req productRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	product := req.model()
	product.ID = productID
	removed, err := h.productService.Update(ctx, product)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}
	if removed == nil {
		removed = []int64{}
	}
	h.respondJSON(ctx, w, http.StatusOK, map[string]any{
		"product":            product,
		"removed_cart_lines": removed,
	})
}

// ProductDelete handles DELETE /api/admin/products/{productID}.
func (h *Handlers) ProductDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productID, err := pathID(r, "productID")
	if err != nil {
		h.respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.productService.Delete(ctx, productID); err != nil {
		h.respondError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
