package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rugstoreapp/rugstore/internal/db"
	"github.com/rugstoreapp/rugstore/internal/logging"
	"github.com/rugstoreapp/rugstore/internal/models"
	"github.com/rugstoreapp/rugstore/internal/pricing"
)

type orderCreator interface {
	CreateWithItems(ctx context.Context, order *models.Order, items []models.OrderItem, clearSessionKey string) error
}

type checkoutLineLister interface {
	ListBySession(ctx context.Context, sessionKey string) ([]models.CartLineDetail, error)
}

// OrderNotifier receives a committed order. Implementations must never
// surface their failures to the checkout path.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem)
}

const notifyTimeout = 30 * time.Second

// CheckoutService converts carts (or a single product) into immutable orders.
// Order and item creation plus cart clearing happen inside one datastore
// transaction; confirmation emails are dispatched after commit on a detached
// context so they can neither delay nor roll back the order.
type CheckoutService struct {
	lines    checkoutLineLister
	products productGetter
	orders   orderCreator
	notifier OrderNotifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewCheckoutService(lines checkoutLineLister, products productGetter, orders orderCreator, notifier OrderNotifier, logger *slog.Logger) *CheckoutService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &CheckoutService{
		lines:    lines,
		products: products,
		orders:   orders,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

// Consolidate snapshots the session's cart into an order. The cart must be
// non-empty and every contact field present; validation happens before any
// mutation. On success the cart is empty and order.Total equals the sum of
// the snapshot item prices.
func (s *CheckoutService) Consolidate(ctx context.Context, sessionKey string, contact models.Contact, delivery, pay string) (*models.Order, []models.OrderItem, error) {
	if sessionKey == "" {
		return nil, nil, ErrSessionNotFound
	}
	if err := s.validateOrderFields(contact, delivery, pay); err != nil {
		return nil, nil, err
	}

	details, err := s.lines.ListBySession(ctx, sessionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(details) == 0 {
		return nil, nil, ErrEmptyCart
	}

	total := 0
	items := make([]models.OrderItem, 0, len(details))
	for _, detail := range details {
		total += detail.Total
		items = append(items, models.OrderItem{
			ProductID:   detail.ProductID,
			ProductName: detail.Product.Name,
			Size:        detail.Size,
			Quantity:    detail.Quantity,
			Price:       detail.Total,
			Discount:    detail.DiscountTotal,
		})
	}

	order := &models.Order{
		Email:    contact.Email,
		Name:     contact.Name,
		Address:  contact.Address,
		Phone:    contact.Phone,
		Delivery: delivery,
		Pay:      pay,
		Total:    total,
	}

	if err := s.orders.CreateWithItems(ctx, order, items, sessionKey); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrTransactionFailure, err)
	}

	logging.FromContext(ctx, s.logger).Info("order placed",
		"order_id", order.ID, "items", len(items), "total", order.Total)
	s.dispatchNotification(order, items)

	return order, items, nil
}

// ConsolidateOne places an order for a single product without touching the
// cart. The privacy policy must be accepted. The item is priced from the
// product's live price and the size's area; no discount applies on this path.
func (s *CheckoutService) ConsolidateOne(ctx context.Context, productID int64, size string, quantity int, contact models.Contact, delivery, pay string, policyAccepted bool) (*models.Order, []models.OrderItem, error) {
	if !policyAccepted {
		return nil, nil, ErrPolicyNotAccepted
	}
	if err := s.validateOrderFields(contact, delivery, pay); err != nil {
		return nil, nil, err
	}
	if quantity < 1 {
		return nil, nil, ErrInvalidQuantity
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, fmt.Errorf("failed to load product: %w", err)
	}

	price, err := pricing.LineTotal(size, product.Price, quantity)
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		Email:          contact.Email,
		Name:           contact.Name,
		Address:        contact.Address,
		Phone:          contact.Phone,
		Delivery:       delivery,
		Pay:            pay,
		PolicyAccepted: true,
		Total:          price,
	}
	items := []models.OrderItem{{
		ProductID:   product.ID,
		ProductName: product.Name,
		Size:        size,
		Quantity:    quantity,
		Price:       price,
	}}

	if err := s.orders.CreateWithItems(ctx, order, items, ""); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrTransactionFailure, err)
	}

	logging.FromContext(ctx, s.logger).Info("direct order placed",
		"order_id", order.ID, "product_id", productID, "total", order.Total)
	s.dispatchNotification(order, items)

	return order, items, nil
}

func (s *CheckoutService) validateOrderFields(contact models.Contact, delivery, pay string) error {
	if err := s.validate.Struct(contact); err != nil {
		return ErrMissingFields
	}
	if strings.TrimSpace(delivery) == "" || strings.TrimSpace(pay) == "" {
		return ErrMissingFields
	}
	return nil
}

// dispatchNotification hands the committed order to the notifier on a fresh
// background context. The checkout response has already been decided; nothing
// that happens here can change it.
func (s *CheckoutService) dispatchNotification(order *models.Order, items []models.OrderItem) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		s.notifier.OrderPlaced(ctx, order, items)
	}()
}

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(context.Context, *models.Order, []models.OrderItem) {}
