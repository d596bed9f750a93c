package models

import "time"

// StoredImage is the metadata row for one uploaded product photo.
// Rows are insert-only; there is no update or delete path.
type StoredImage struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	StoragePath string    `json:"storage_path"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CapturedAt  time.Time `json:"captured_at"`
	CapturedBy  string    `json:"captured_by"`
}
