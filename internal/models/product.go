package models

import "time"

// Product is a catalog entry. Price and Discount are per-square-meter unit
// prices; a cart line's total is unit price * size area * quantity.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	Discount    int       `json:"discount"`
	Sizes       []string  `json:"sizes"`
	ImageURLs   []string  `json:"image_urls"`
	Composition string    `json:"composition"`
	Backing     string    `json:"backing"`
	PileHeight  string    `json:"pile_height"`
	Density     string    `json:"density"`
	Origin      string    `json:"origin"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
