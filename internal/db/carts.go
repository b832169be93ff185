package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartStore struct {
	pool *pgxpool.Pool
}

func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// InsertLine inserts a new cart line. The unique constraint on
// (session_key, product_id, size) makes the existence check and the insert one
// serializable unit: under concurrent duplicate requests at most one insert
// succeeds and the rest fail with a unique violation.
func (s *CartStore) InsertLine(ctx context.Context, line *CartLine) error {
	row := s.pool.QueryRow(ctx, `INSERT INTO cart_lines
		(session_key, product_id, size, quantity, total, discount_total)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		line.SessionKey, line.ProductID, line.Size, line.Quantity, line.Total, line.DiscountTotal)
	return row.Scan(&line.ID, &line.CreatedAt)
}

const cartDetailQuery = `SELECT
		cl.id, cl.session_key, cl.product_id, cl.size, cl.quantity, cl.total, cl.discount_total, cl.created_at,
		p.id, p.name, p.price, p.discount, p.sizes, p.image_urls, p.composition,
		p.backing, p.pile_height, p.density, p.origin, p.description, p.created_at, p.updated_at
	FROM cart_lines cl
	JOIN products p ON p.id = cl.product_id`

// ListBySession returns the session's cart lines with product detail joined,
// most recently added first.
func (s *CartStore) ListBySession(ctx context.Context, sessionKey string) ([]CartLineDetail, error) {
	rows, err := s.pool.Query(ctx, cartDetailQuery+`
		WHERE cl.session_key = $1
		ORDER BY cl.created_at DESC, cl.id DESC`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCartDetails(rows)
}

// ListByProduct returns every cart line referencing a product, across all
// sessions. Used by catalog-change propagation.
func (s *CartStore) ListByProduct(ctx context.Context, productID int64) ([]CartLine, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			id, session_key, product_id, size, quantity, total, discount_total, created_at
		FROM cart_lines WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var line CartLine
		if err := rows.Scan(&line.ID, &line.SessionKey, &line.ProductID, &line.Size,
			&line.Quantity, &line.Total, &line.DiscountTotal, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// GetLine returns a session-owned line with its product joined.
func (s *CartStore) GetLine(ctx context.Context, sessionKey string, lineID int64) (*CartLineDetail, error) {
	row := s.pool.QueryRow(ctx, cartDetailQuery+`
		WHERE cl.id = $1 AND cl.session_key = $2`, lineID, sessionKey)
	detail, err := scanCartDetail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteLine removes a session-owned line. Deleting an absent line is a no-op.
func (s *CartStore) DeleteLine(ctx context.Context, sessionKey string, lineID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1 AND session_key = $2`, lineID, sessionKey)
	return err
}

// DeleteLineByID removes a line regardless of owning session. Used by
// propagation when a purchased size is retired.
func (s *CartStore) DeleteLineByID(ctx context.Context, lineID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, lineID)
	return err
}

// UpdateLine persists a recomputed quantity and totals in one atomic UPDATE.
// It reports whether the line still existed.
func (s *CartStore) UpdateLine(ctx context.Context, lineID int64, quantity, total, discountTotal int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE cart_lines
		SET quantity = $1, total = $2, discount_total = $3
		WHERE id = $4`, quantity, total, discountTotal, lineID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateTotals rewrites a line's totals without touching its quantity. Used by
// propagation; the single UPDATE means a concurrent reader sees either the old
// or the new totals, never a torn write.
func (s *CartStore) UpdateTotals(ctx context.Context, lineID int64, total, discountTotal int) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE cart_lines
		SET total = $1, discount_total = $2
		WHERE id = $3`, total, discountTotal, lineID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanCartDetail(row productRow) (*CartLineDetail, error) {
	var d CartLineDetail
	err := row.Scan(&d.ID, &d.SessionKey, &d.ProductID, &d.Size, &d.Quantity,
		&d.Total, &d.DiscountTotal, &d.CreatedAt,
		&d.Product.ID, &d.Product.Name, &d.Product.Price, &d.Product.Discount,
		&d.Product.Sizes, &d.Product.ImageURLs, &d.Product.Composition,
		&d.Product.Backing, &d.Product.PileHeight, &d.Product.Density,
		&d.Product.Origin, &d.Product.Description, &d.Product.CreatedAt, &d.Product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanCartDetails(rows pgx.Rows) ([]CartLineDetail, error) {
	var details []CartLineDetail
	for rows.Next() {
		detail, err := scanCartDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, rows.Err()
}
