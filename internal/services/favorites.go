package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/models"
)

type favoriteStore interface {
	Insert(ctx context.Context, sessionKey string, productID int64) error
	ListBySession(ctx context.Context, sessionKey string) ([]models.FavoriteDetail, error)
	Delete(ctx context.Context, sessionKey string, productID int64) error
}

// FavoriteService keeps per-session wish lists. Adding twice is a no-op and
// removing an absent favorite succeeds, so callers can treat both as toggles.
type FavoriteService struct {
	favorites favoriteStore
	products  productGetter
	logger    *slog.Logger
}

func NewFavoriteService(favorites favoriteStore, products productGetter, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, products: products, logger: logger}
}

func (s *FavoriteService) Add(ctx context.Context, sessionKey string, productID int64) error {
	if sessionKey == "" {
		return ErrSessionNotFound
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	return s.favorites.Insert(ctx, sessionKey, productID)
}

func (s *FavoriteService) List(ctx context.Context, sessionKey string) ([]models.FavoriteDetail, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}
	return s.favorites.ListBySession(ctx, sessionKey)
}

func (s *FavoriteService) Remove(ctx context.Context, sessionKey string, productID int64) error {
	if sessionKey == "" {
		return ErrSessionNotFound
	}
	return s.favorites.Delete(ctx, sessionKey, productID)
}
