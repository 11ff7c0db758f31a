package domain

import "time"

// Product is a catalog entry. Created is set once on insert.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Available   bool      `json:"available"`
	Created     time.Time `json:"created"`
}
