package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// InMemoryMovementRepository is the in-memory MovementRepository used by tests.
type InMemoryMovementRepository struct {
	mu        sync.Mutex
	movements []models.Movement
	nextID    int
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{nextID: 1}
}

func (r *InMemoryMovementRepository) Log(_ context.Context, productID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, models.Movement{
		ID:        r.nextID,
		ProductID: productID,
		Delta:     delta,
		CreatedAt: time.Now().UTC(),
	})
	r.nextID++
	return nil
}

func (r *InMemoryMovementRepository) ListByProduct(_ context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Movement
	for _, m := range r.movements {
		if m.ProductID != productID {
			continue
		}
		if mf.Since != nil && m.CreatedAt.Before(*mf.Since) {
			continue
		}
		if mf.Until != nil && m.CreatedAt.After(*mf.Until) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := 0
	if mf.Offset != nil {
		start = min(max(*mf.Offset, 0), total)
	}
	end := total
	if mf.Limit != nil && *mf.Limit > 0 {
		end = min(start+*mf.Limit, total)
	}
	return filtered[start:end], total, nil
}
