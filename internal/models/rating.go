package models

import "time"

// Rating is one session's review of a product. A session may rate a product
// once; the store enforces this with a unique constraint.
type Rating struct {
	ID         int64     `json:"id"`
	SessionKey string    `json:"-"`
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Grade      int       `json:"grade"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary is the aggregate shown on a product page.
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
