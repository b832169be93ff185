package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// CreateWithItems creates an order, snapshots its items and, when
// clearSessionKey is non-empty, deletes that session's cart lines — all inside
// one transaction. A failure at any step rolls the whole unit back: no order
// without items, no half-cleared cart.
func (s *OrderStore) CreateWithItems(ctx context.Context, order *Order, items []OrderItem, clearSessionKey string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `INSERT INTO orders
		(email, name, address, phone, delivery, pay, policy_accepted, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		order.Email, order.Name, order.Address, order.Phone,
		order.Delivery, order.Pay, order.PolicyAccepted, order.Total)
	if err := row.Scan(&order.ID, &order.CreatedAt); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		row := tx.QueryRow(ctx, `INSERT INTO order_items
			(order_id, product_id, product_name, size, quantity, price, discount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			items[i].OrderID, items[i].ProductID, items[i].ProductName,
			items[i].Size, items[i].Quantity, items[i].Price, items[i].Discount)
		if err := row.Scan(&items[i].ID); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if clearSessionKey != "" {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE session_key = $1`, clearSessionKey); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID int64) (*Order, []OrderItem, error) {
	row := s.pool.QueryRow(ctx, `SELECT
			id, email, name, address, phone, delivery, pay, policy_accepted, total, created_at
		FROM orders WHERE id = $1`, orderID)

	var order Order
	err := row.Scan(&order.ID, &order.Email, &order.Name, &order.Address, &order.Phone,
		&order.Delivery, &order.Pay, &order.PolicyAccepted, &order.Total, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	items, err := s.itemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return &order, items, nil
}

// ListRecent returns the newest orders with their items, for the operator view.
func (s *OrderStore) ListRecent(ctx context.Context, limit int) ([]*Order, map[int64][]OrderItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			id, email, name, address, phone, delivery, pay, policy_accepted, total, created_at
		FROM orders ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.Email, &order.Name, &order.Address, &order.Phone,
			&order.Delivery, &order.Pay, &order.PolicyAccepted, &order.Total, &order.CreatedAt); err != nil {
			return nil, nil, err
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	itemsByOrder := make(map[int64][]OrderItem, len(orders))
	for _, order := range orders {
		items, err := s.itemsByOrder(ctx, order.ID)
		if err != nil {
			return nil, nil, err
		}
		itemsByOrder[order.ID] = items
	}
	return orders, itemsByOrder, nil
}

func (s *OrderStore) itemsByOrder(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			id, order_id, product_id, product_name, size, quantity, price, discount
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Size, &item.Quantity, &item.Price, &item.Discount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
