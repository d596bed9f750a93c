package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// InMemoryStoredImageRepository is the in-memory StoredImageRepository used
// by tests.
type InMemoryStoredImageRepository struct {
	mu     sync.Mutex
	images []models.StoredImage
	nextID int
	// FailInserts makes Insert fail; used to exercise the orphan-blob path.
	FailInserts error
}

func NewInMemoryStoredImageRepository() *InMemoryStoredImageRepository {
	return &InMemoryStoredImageRepository{nextID: 1}
}

func (r *InMemoryStoredImageRepository) Insert(_ context.Context, img models.StoredImage) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailInserts != nil {
		return 0, r.FailInserts
	}
	img.ID = r.nextID
	r.nextID++
	r.images = append(r.images, img)
	return img.ID, nil
}

func (r *InMemoryStoredImageRepository) ListByProduct(_ context.Context, productID int) ([]models.StoredImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StoredImage
	for _, img := range r.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

// Count reports stored rows; test helper.
func (r *InMemoryStoredImageRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.images)
}
