package models

import "time"

// Movement is one stock delta for a product; registrations log +1 per sighting.
type Movement struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Delta     int       `json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}
