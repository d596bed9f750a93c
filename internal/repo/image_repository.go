package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// StoredImageRepository persists the metadata row for each uploaded photo.
// Rows are insert-only.
type StoredImageRepository interface {
	Insert(ctx context.Context, img models.StoredImage) (int, error)
	ListByProduct(ctx context.Context, productID int) ([]models.StoredImage, error)
}
