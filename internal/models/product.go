package models

import "time"

// Product represents a product entity in the inventory, keyed by barcode.
type Product struct {
	ID            int       `json:"id"`
	Barcode       string    `json:"barcode"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Model         string    `json:"model"`
	CategoryID    *int      `json:"category_id,omitempty"`
	Compatibility string    `json:"compatibility"`
	Notes         string    `json:"notes"`
	State         string    `json:"state"`
	StockQuantity int       `json:"stock_quantity"`
	Availability  string    `json:"availability"`
	ImageURL      string    `json:"image_url"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// ProductMeta carries the optional descriptive fields supplied on a first
// sighting. They are never overwritten by later sightings.
type ProductMeta struct {
	Name          string
	Brand         string
	Model         string
	CategoryID    *int
	Compatibility string
	Notes         string
}
