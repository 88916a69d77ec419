package domain

import "time"

// Sale is an immutable record of units sold. ProductName is the name the
// caller saw at checkout, not a live reference.
type Sale struct {
	ID          int64     `json:"id" db:"id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	PriceEach   float64   `json:"price_each" db:"price_each"`
	Total       float64   `json:"total" db:"total"`
	SoldBy      string    `json:"sold_by" db:"sold_by"`
	SoldAt      time.Time `json:"sold_at" db:"sold_at"`
}
