package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rugstoreapp/rugstore/internal/cache"
	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/logging"
	"github.com/rugstoreapp/rugstore/internal/models"
)

type productStore interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, int, error)
	ListNewest(ctx context.Context, limit int) ([]*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
}

type cartPropagator interface {
	ProductChanged(ctx context.Context, productID int64, newPrice, newDiscount int, newSizes []string) ([]int64, error)
}

const productCacheTTL = 5 * time.Minute

// ProductService serves catalog reads through a small cache and routes
// every mutation through the cart propagator so that existing cart lines
// are repriced or evicted in the same request.
type ProductService struct {
	store      productStore
	cache      cache.Provider
	propagator cartPropagator
	logger     *slog.Logger
}

func NewProductService(store productStore, cacheProvider cache.Provider, propagator cartPropagator, logger *slog.Logger) *ProductService {
	return &ProductService{
		store:      store,
		cache:      cacheProvider,
		propagator: propagator,
		logger:     logger,
	}
}

func (s *ProductService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	if cached := s.cachedProduct(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) List(ctx context.Context, limit, offset int) ([]*models.Product, int, error) {
	return s.store.List(ctx, limit, offset)
}

func (s *ProductService) ListNewest(ctx context.Context, limit int) ([]*models.Product, error) {
	return s.store.ListNewest(ctx, limit)
}

func (s *ProductService) Create(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.store.Create(ctx, product)
}

// Update persists the edited product, drops its cache entry and then walks
// every cart line referencing it. Lines whose size is still offered are
// repriced against the new price; lines whose size disappeared are evicted.
// The IDs of evicted lines are returned so callers can surface them.
func (s *ProductService) Update(ctx context.Context, product *models.Product) ([]int64, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, product); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidateProduct(ctx, product.ID)

	removed, err := s.propagator.ProductChanged(ctx, product.ID, product.Price, product.Discount, product.Sizes)
	if err != nil {
		s.loggerFromContext(ctx).Error("cart propagation after product update failed",
			"product_id", product.ID, "error", err)
	}
	return removed, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.invalidateProduct(ctx, id)
	return nil
}

func (s *ProductService) cachedProduct(ctx context.Context, id int64) *models.Product {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, cache.ProductKey(id))
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.loggerFromContext(ctx).Warn("product cache read failed", "product_id", id, "error", err)
		}
		return nil
	}

	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		s.loggerFromContext(ctx).Warn("discarding malformed product cache entry", "product_id", id, "error", err)
		s.invalidateProduct(ctx, id)
		return nil
	}
	return &product
}

func (s *ProductService) cacheProduct(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.ProductKey(product.ID), string(raw), productCacheTTL); err != nil {
		s.loggerFromContext(ctx).Warn("product cache write failed", "product_id", product.ID, "error", err)
	}
}

func (s *ProductService) invalidateProduct(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ProductKey(id)); err != nil {
		s.loggerFromContext(ctx).Warn("product cache invalidation failed", "product_id", id, "error", err)
	}
}

func validateProduct(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" || product.Price <= 0 {
		return ErrMissingFields
	}
	if product.Discount < 0 || product.Discount > product.Price {
		return ErrMissingFields
	}
	return nil
}
