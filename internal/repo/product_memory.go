package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository, used by handler and registration tests.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
	// KnownCategories, when non-nil, makes sightings with an unknown
	// category fail the way the foreign key does in Postgres.
	KnownCategories map[int]bool
	// FailWrites makes RecordSighting fail; used to exercise persistence
	// failure paths.
	FailWrites error
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{nextID: 1}
}

func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

func (r *InMemoryProductRepository) GetByBarcode(_ context.Context, barcode string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) RecordSighting(_ context.Context, s Sighting) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return models.Product{}, r.FailWrites
	}

	now := time.Now().UTC()
	for i := range r.products {
		if r.products[i].Barcode == s.Barcode {
			p := &r.products[i]
			p.StockQuantity++
			if s.UpdateState {
				p.State = s.State
			}
			p.Availability = Availability(p.StockQuantity)
			p.ImageURL = s.ImageURL
			p.UpdatedAt = now
			return *p, nil
		}
	}

	meta := normalizeMeta(s.Meta)
	if meta.CategoryID != nil && r.KnownCategories != nil && !r.KnownCategories[*meta.CategoryID] {
		return models.Product{}, ErrInvalidCategory
	}
	p := models.Product{
		ID:            r.nextID,
		Barcode:       s.Barcode,
		Name:          meta.Name,
		Brand:         meta.Brand,
		Model:         meta.Model,
		CategoryID:    meta.CategoryID,
		Compatibility: meta.Compatibility,
		Notes:         meta.Notes,
		State:         s.State,
		StockQuantity: 1,
		Availability:  Availability(1),
		ImageURL:      s.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.nextID++
	r.products = append(r.products, p)
	return p, nil
}

// Reset clears all products; test helper.
func (r *InMemoryProductRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = nil
	r.nextID = 1
}
