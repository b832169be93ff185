package models

import "time"

// Favorite bookmarks a product for a session. One row per
// (session key, product).
type Favorite struct {
	ID         int64     `json:"id"`
	SessionKey string    `json:"-"`
	ProductID  int64     `json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FavoriteDetail is a favorite joined with its product.
type FavoriteDetail struct {
	Favorite
	Product Product `json:"product"`
}
