package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

// ErrProductNotFound is returned when no product exists for a barcode.
var ErrProductNotFound = errors.New("product not found")

// ErrInvalidCategory is returned when a sighting references a category that
// does not exist; surfaced to the client as a business error.
var ErrInvalidCategory = errors.New("category does not exist")

// Sighting is one scan of a barcode: the classified state, the photo URL and
// the metadata to use if the product is new. UpdateState false keeps the
// existing state on a re-sighting (the low-confidence "skip" policy).
type Sighting struct {
	Barcode     string
	State       string
	UpdateState bool
	ImageURL    string
	Meta        models.ProductMeta
}

// ProductRepository defines the product data operations.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (models.Product, error)
	// RecordSighting atomically creates the product with stock 1 or
	// increments its stock by exactly 1, and returns the resulting row.
	// Metadata fields are only written on creation, never on update.
	RecordSighting(ctx context.Context, s Sighting) (models.Product, error)
}

// Stock availability tiers. Boundaries are inclusive on the lower tier:
// exactly 4 is low, exactly 5 is medium, exactly 10 is medium, 11 is high.
const (
	AvailabilityOutOfStock = "out of stock"
	AvailabilityLow        = "low availability"
	AvailabilityMedium     = "medium availability"
	AvailabilityHigh       = "high availability"
)

// Availability maps a stock quantity to its availability tier.
func Availability(quantity int) string {
	switch {
	case quantity <= 0:
		return AvailabilityOutOfStock
	case quantity <= 4:
		return AvailabilityLow
	case quantity <= 10:
		return AvailabilityMedium
	default:
		return AvailabilityHigh
	}
}

// normalizeMeta fills the defaults used when a first sighting arrives without
// descriptive fields.
func normalizeMeta(m models.ProductMeta) models.ProductMeta {
	if m.Name == "" {
		m.Name = "unnamed"
	}
	if m.Brand == "" {
		m.Brand = "N/A"
	}
	if m.Model == "" {
		m.Model = "N/A"
	}
	if m.Compatibility == "" {
		m.Compatibility = "N/A"
	}
	return m
}
