package repo

import (
	"context"
	"sort"

	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

// InMemoryAnalyticsRepository computes reports from the in-memory product and
// movement repositories; used by handler tests.
type InMemoryAnalyticsRepository struct {
	Products  *InMemoryProductRepository
	Movements *InMemoryMovementRepository
}

func NewInMemoryAnalyticsRepository(p *InMemoryProductRepository, m *InMemoryMovementRepository) *InMemoryAnalyticsRepository {
	return &InMemoryAnalyticsRepository{Products: p, Movements: m}
}

func (r *InMemoryAnalyticsRepository) TopProductsByStock(ctx context.Context, limit int) ([]ProductStock, error) {
	products, err := r.Products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].StockQuantity > products[j].StockQuantity
	})
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	out := make([]ProductStock, len(products))
	for i, p := range products {
		out[i] = ProductStock{Name: p.Name, Barcode: p.Barcode, StockQuantity: p.StockQuantity}
	}
	return out, nil
}

func (r *InMemoryAnalyticsRepository) GetAvailabilitySummary(ctx context.Context) (AvailabilitySummary, error) {
	products, err := r.Products.GetAll(ctx)
	if err != nil {
		return AvailabilitySummary{}, err
	}
	var s AvailabilitySummary
	for _, p := range products {
		switch p.Availability {
		case AvailabilityOutOfStock:
			s.OutOfStock++
		case AvailabilityLow:
			s.Low++
		case AvailabilityMedium:
			s.Medium++
		case AvailabilityHigh:
			s.High++
		}
	}
	return s, nil
}

func (r *InMemoryAnalyticsRepository) GetDashboard(ctx context.Context) (Dashboard, error) {
	products, err := r.Products.GetAll(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	var d Dashboard
	d.TotalProducts = len(products)
	sightings := map[int]int{}
	r.Movements.mu.Lock()
	d.TotalRegistrations = len(r.Movements.movements)
	for _, m := range r.Movements.movements {
		sightings[m.ProductID]++
	}
	r.Movements.mu.Unlock()
	best := 0
	for _, p := range products {
		if p.State == vision.SentinelLabel {
			d.UncertainStates++
		}
		if sightings[p.ID] > best {
			best = sightings[p.ID]
			d.MostSighted = p.Name
		}
	}
	return d, nil
}
