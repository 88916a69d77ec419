package domain

import "time"

// Product represents a stock item on the shop floor
type Product struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Brand      string    `json:"brand" db:"brand"`
	Category   string    `json:"category" db:"category"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PriceEach  float64   `json:"price_each" db:"price_each"`
	PriceTotal float64   `json:"price_total" db:"price_total"`
	Image      *string   `json:"image" db:"image"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
