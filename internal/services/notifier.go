package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rugstoreapp/rugstore/internal/email"
	"github.com/rugstoreapp/rugstore/internal/models"
)

// Notifier composes and dispatches the two post-order emails: a new-order
// summary for the shop operator and a receipt confirmation for the customer.
// Both sends are best effort: a failure is logged and swallowed, and the
// second message is attempted even when the first one failed. Nothing here
// can turn a committed order into an error.
type Notifier struct {
	provider      email.Provider
	shopName      string
	operatorEmail string
	logger        *slog.Logger
}

func NewNotifier(provider email.Provider, shopName, operatorEmail string, logger *slog.Logger) *Notifier {
	return &Notifier{
		provider:      provider,
		shopName:      shopName,
		operatorEmail: operatorEmail,
		logger:        logger,
	}
}

func (n *Notifier) OrderPlaced(ctx context.Context, order *models.Order, items []models.OrderItem) {
	if n.provider == nil {
		return
	}

	info := n.orderInfo(order, items)

	if err := email.SendOrderOperatorNotice(ctx, n.provider, info); err != nil {
		n.logger.Error("failed to send operator order notice",
			"order_id", order.ID, "error", err)
	}
	if err := email.SendOrderConfirmation(ctx, n.provider, info); err != nil {
		n.logger.Error("failed to send customer order confirmation",
			"order_id", order.ID, "to", order.Email, "error", err)
	}
}

func (n *Notifier) orderInfo(order *models.Order, items []models.OrderItem) *email.OrderInfo {
	lines := make([]email.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, email.OrderLine{
			Name:     item.ProductName,
			Size:     item.Size,
			Quantity: item.Quantity,
			Price:    formatPrice(item.Price),
		})
	}

	return &email.OrderInfo{
		OrderNumber:   strconv.FormatInt(order.ID, 10),
		CustomerName:  order.Name,
		CustomerEmail: order.Email,
		CustomerPhone: order.Phone,
		Address:       order.Address,
		Delivery:      order.Delivery,
		Pay:           order.Pay,
		Items:         lines,
		Total:         formatPrice(order.Total),
		ShopName:      n.shopName,
		OperatorEmail: n.operatorEmail,
		OrderDate:     order.CreatedAt.Format("January 2, 2006"),
	}
}

func formatPrice(amount int) string {
	return fmt.Sprintf("%d ₽", amount)
}
