package models

import "time"

// Contact carries the customer-supplied fields required to place an order.
type Contact struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Order is immutable once created. Its items are point-in-time snapshots;
// later product edits never change a placed order.
type Order struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Delivery       string    `json:"delivery"`
	Pay            string    `json:"pay"`
	PolicyAccepted bool      `json:"policy_accepted"`
	Total          int       `json:"total"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderItem is the snapshot of one purchased line: the product name, size,
// quantity and computed totals as they were at order creation. It carries no
// live reference to catalog pricing.
type OrderItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
	Discount    int    `json:"discount"`
}
