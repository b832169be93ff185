package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/logging"
	"github.com/rugstoreapp/rugstore/internal/models"
	"github.com/rugstoreapp/rugstore/internal/pricing"
)

type cartLineStore interface {
	InsertLine(ctx context.Context, line *models.CartLine) error
	ListBySession(ctx context.Context, sessionKey string) ([]models.CartLineDetail, error)
	GetLine(ctx context.Context, sessionKey string, lineID int64) (*models.CartLineDetail, error)
	DeleteLine(ctx context.Context, sessionKey string, lineID int64) error
	UpdateLine(ctx context.Context, lineID int64, quantity, total, discountTotal int) (bool, error)
}

type productGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService manages a session's priced cart lines. All operations are
// scoped by the opaque session key established by the session middleware.
type CartService struct {
	lines    cartLineStore
	products productGetter
	logger   *slog.Logger
}

func NewCartService(lines cartLineStore, products productGetter, logger *slog.Logger) *CartService {
	return &CartService{
		lines:    lines,
		products: products,
		logger:   logger,
	}
}

func (s *CartService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// AddLine prices a new cart line from the product's current catalog price and
// inserts it, then returns the full updated cart. Re-adding the same
// (product, size) combination for a session is rejected, not merged; the
// store's unique constraint makes the check-and-insert race free.
func (s *CartService) AddLine(ctx context.Context, sessionKey string, productID int64, size string, quantity int) ([]models.CartLineDetail, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	total, err := pricing.LineTotal(size, product.Price, quantity)
	if err != nil {
		return nil, err
	}
	// Same formula, different unit price. The discount total is never derived
	// from the regular total.
	discountTotal, err := pricing.LineTotal(size, product.Discount, quantity)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		SessionKey:    sessionKey,
		ProductID:     productID,
		Size:          size,
		Quantity:      quantity,
		Total:         total,
		DiscountTotal: discountTotal,
	}
	if err := s.lines.InsertLine(ctx, line); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateLine
		}
		return nil, fmt.Errorf("failed to insert cart line: %w", err)
	}

	s.loggerFromContext(ctx).Info("cart line added",
		"product_id", productID, "size", size, "quantity", quantity, "total", total)

	return s.lines.ListBySession(ctx, sessionKey)
}

// ListLines returns the session's cart with product detail joined, most
// recently added first.
func (s *CartService) ListLines(ctx context.Context, sessionKey string) ([]models.CartLineDetail, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}
	return s.lines.ListBySession(ctx, sessionKey)
}

// RemoveLine deletes a session-owned line. Removing an absent line is a no-op;
// the current listing is returned either way so the caller observes the
// resulting state.
func (s *CartService) RemoveLine(ctx context.Context, sessionKey string, lineID int64) ([]models.CartLineDetail, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}
	if err := s.lines.DeleteLine(ctx, sessionKey, lineID); err != nil {
		return nil, fmt.Errorf("failed to delete cart line: %w", err)
	}
	return s.lines.ListBySession(ctx, sessionKey)
}

// UpdateQuantity changes a line's quantity and recomputes both totals from
// the product's current price and discount, not the price recorded when the
// line was added.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionKey string, lineID int64, quantity int) (*models.CartLineDetail, error) {
	if sessionKey == "" {
		return nil, ErrSessionNotFound
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.lines.GetLine(ctx, sessionKey, lineID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}

	product, err := s.products.GetByID(ctx, line.ProductID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	total, err := pricing.LineTotal(line.Size, product.Price, quantity)
	if err != nil {
		return nil, err
	}
	discountTotal, err := pricing.LineTotal(line.Size, product.Discount, quantity)
	if err != nil {
		return nil, err
	}

	updated, err := s.lines.UpdateLine(ctx, line.ID, quantity, total, discountTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	if !updated {
		return nil, ErrLineNotFound
	}

	line.Quantity = quantity
	line.Total = total
	line.DiscountTotal = discountTotal
	line.Product = *product
	return line, nil
}
