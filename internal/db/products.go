package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, name, price, discount, sizes, image_urls, composition,
	backing, pile_height, density, origin, description, created_at, updated_at`

func (s *ProductStore) GetByID(ctx context.Context, id int64) (*Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List returns a page of products, newest first, with the total count so the
// caller can compute whether more pages remain.
func (s *ProductStore) List(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products
		ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (s *ProductStore) ListNewest(ctx context.Context, limit int) ([]*Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products
		ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *ProductStore) Create(ctx context.Context, product *Product) error {
	row := s.pool.QueryRow(ctx, `INSERT INTO products
		(name, price, discount, sizes, image_urls, composition, backing, pile_height, density, origin, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		product.Name, product.Price, product.Discount, product.Sizes, product.ImageURLs,
		product.Composition, product.Backing, product.PileHeight, product.Density,
		product.Origin, product.Description)
	return row.Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (s *ProductStore) Update(ctx context.Context, product *Product) error {
	tag, err := s.pool.Exec(ctx, `UPDATE products SET
		name = $1, price = $2, discount = $3, sizes = $4, image_urls = $5,
		composition = $6, backing = $7, pile_height = $8, density = $9,
		origin = $10, description = $11, updated_at = NOW()
		WHERE id = $12`,
		product.Name, product.Price, product.Discount, product.Sizes, product.ImageURLs,
		product.Composition, product.Backing, product.PileHeight, product.Density,
		product.Origin, product.Description, product.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertByName inserts a product or refreshes the existing row with the same
// name. Used by the catalog seed loader.
func (s *ProductStore) UpsertByName(ctx context.Context, product *Product) error {
	row := s.pool.QueryRow(ctx, `SELECT id FROM products WHERE name = $1`, product.Name)
	var id int64
	err := row.Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.Create(ctx, product)
	}
	if err != nil {
		return err
	}
	product.ID = id
	return s.Update(ctx, product)
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type productRow interface {
	Scan(dest ...any) error
}

func scanProduct(row productRow) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Discount, &p.Sizes, &p.ImageURLs,
		&p.Composition, &p.Backing, &p.PileHeight, &p.Density, &p.Origin,
		&p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
