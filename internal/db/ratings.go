package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RatingStore struct {
	pool *pgxpool.Pool
}

func NewRatingStore(pool *pgxpool.Pool) *RatingStore {
	return &RatingStore{pool: pool}
}

// Insert records a session's rating of a product. The unique constraint on
// (session_key, product_id) rejects a second rating from the same session.
func (s *RatingStore) Insert(ctx context.Context, rating *Rating) error {
	row := s.pool.QueryRow(ctx, `INSERT INTO ratings
		(session_key, product_id, name, grade, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		rating.SessionKey, rating.ProductID, rating.Name, rating.Grade, rating.Body)
	return row.Scan(&rating.ID, &rating.CreatedAt)
}

func (s *RatingStore) ListByProduct(ctx context.Context, productID int64) ([]Rating, error) {
	rows, err := s.pool.Query(ctx, `SELECT
			id, session_key, product_id, name, grade, body, created_at
		FROM ratings WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.SessionKey, &r.ProductID, &r.Name, &r.Grade, &r.Body, &r.CreatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *RatingStore) SummaryByProduct(ctx context.Context, productID int64) (RatingSummary, error) {
	var summary RatingSummary
	row := s.pool.QueryRow(ctx, `SELECT COUNT(*), COALESCE(AVG(grade), 0)
		FROM ratings WHERE product_id = $1`, productID)
	if err := row.Scan(&summary.Count, &summary.Average); err != nil {
		return RatingSummary{}, err
	}
	return summary, nil
}
