package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/models"
)

type ratingStore interface {
	Insert(ctx context.Context, rating *models.Rating) error
	ListByProduct(ctx context.Context, productID int64) ([]models.Rating, error)
	SummaryByProduct(ctx context.Context, productID int64) (models.RatingSummary, error)
}

// RatingService records one grade per session per product. The store's
// unique constraint keeps concurrent duplicate submissions out.
type RatingService struct {
	ratings  ratingStore
	products productGetter
	logger   *slog.Logger
}

func NewRatingService(ratings ratingStore, products productGetter, logger *slog.Logger) *RatingService {
	return &RatingService{ratings: ratings, products: products, logger: logger}
}

func (s *RatingService) Rate(ctx context.Context, sessionKey string, productID int64, name string, grade int, body string) (models.RatingSummary, error) {
	if sessionKey == "" {
		return models.RatingSummary{}, ErrSessionNotFound
	}
	if grade < 1 || grade > 5 {
		return models.RatingSummary{}, ErrInvalidGrade
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.RatingSummary{}, ErrProductNotFound
		}
		return models.RatingSummary{}, err
	}

	rating := &models.Rating{
		SessionKey: sessionKey,
		ProductID:  productID,
		Name:       name,
		Grade:      grade,
		Body:       body,
	}
	if err := s.ratings.Insert(ctx, rating); err != nil {
		if db.IsUniqueViolation(err) {
			return models.RatingSummary{}, ErrDuplicateRating
		}
		return models.RatingSummary{}, err
	}

	return s.ratings.SummaryByProduct(ctx, productID)
}

func (s *RatingService) Summary(ctx context.Context, productID int64) (models.RatingSummary, error) {
	return s.ratings.SummaryByProduct(ctx, productID)
}

func (s *RatingService) ListByProduct(ctx context.Context, productID int64) ([]models.Rating, error) {
	return s.ratings.ListByProduct(ctx, productID)
}
