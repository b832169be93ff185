package models

import "time"

// CartLine is one priced entry in a session's cart. At most one line exists
// per (session key, product, size) tuple; the size is stored as the raw
// string the client sent.
type CartLine struct {
	ID            int64     `json:"id"`
	SessionKey    string    `json:"-"`
	ProductID     int64     `json:"product_id"`
	Size          string    `json:"size"`
	Quantity      int       `json:"quantity"`
	Total         int       `json:"total"`
	DiscountTotal int       `json:"discount_total"`
	CreatedAt     time.Time `json:"created_at"`
}

// CartLineDetail is a cart line joined with its product, as returned to the
// storefront.
type CartLineDetail struct {
	CartLine
	Product Product `json:"product"`
}
