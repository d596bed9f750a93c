package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// MovementFilter narrows a movement listing by time window and paginates it.
type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Limit  *int
	Offset *int
}

// MovementRepository logs stock deltas; each registration logs +1.
type MovementRepository interface {
	Log(ctx context.Context, productID, delta int) error
	ListByProduct(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error)
}
