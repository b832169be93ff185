package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteStore struct {
	pool *pgxpool.Pool
}

func NewFavoriteStore(pool *pgxpool.Pool) *FavoriteStore {
	return &FavoriteStore{pool: pool}
}

// Insert bookmarks a product for a session. Re-adding an existing bookmark is
// a no-op thanks to the unique constraint.
func (s *FavoriteStore) Insert(ctx context.Context, sessionKey string, productID int64) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO favorites (session_key, product_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT favorites_session_product_key DO NOTHING`,
		sessionKey, productID)
	return err
}

func (s *FavoriteStore) ListBySession(ctx context.Context, sessionKey string) ([]FavoriteDetail, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			f.id, f.session_key, f.product_id, f.created_at,
			p.id, p.name, p.price, p.discount, p.sizes, p.image_urls, p.composition,
			p.backing, p.pile_height, p.density, p.origin, p.description, p.created_at, p.updated_at
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.session_key = $1
		ORDER BY f.created_at DESC, f.id DESC`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []FavoriteDetail
	for rows.Next() {
		var d FavoriteDetail
		if err := rows.Scan(&d.ID, &d.SessionKey, &d.ProductID, &d.CreatedAt,
			&d.Product.ID, &d.Product.Name, &d.Product.Price, &d.Product.Discount,
			&d.Product.Sizes, &d.Product.ImageURLs, &d.Product.Composition,
			&d.Product.Backing, &d.Product.PileHeight, &d.Product.Density,
			&d.Product.Origin, &d.Product.Description, &d.Product.CreatedAt, &d.Product.UpdatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (s *FavoriteStore) Delete(ctx context.Context, sessionKey string, productID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM favorites WHERE session_key = $1 AND product_id = $2`, sessionKey, productID)
	return err
}
