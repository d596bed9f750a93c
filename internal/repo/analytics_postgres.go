package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/vision"
)

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) TopProductsByStock(ctx context.Context, limit int) ([]ProductStock, error) {
	query := `SELECT name, barcode, stock_quantity FROM products
		ORDER BY stock_quantity DESC LIMIT $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductStock
	for rows.Next() {
		var ps ProductStock
		if err := rows.Scan(&ps.Name, &ps.Barcode, &ps.StockQuantity); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (r *PostgresAnalyticsRepository) GetAvailabilitySummary(ctx context.Context) (AvailabilitySummary, error) {
	query := `SELECT availability, COUNT(*) FROM products GROUP BY availability`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return AvailabilitySummary{}, err
	}
	defer rows.Close()

	var s AvailabilitySummary
	for rows.Next() {
		var tier string
		var count int
		if err := rows.Scan(&tier, &count); err != nil {
			return AvailabilitySummary{}, err
		}
		switch tier {
		case AvailabilityOutOfStock:
			s.OutOfStock = count
		case AvailabilityLow:
			s.Low = count
		case AvailabilityMedium:
			s.Medium = count
		case AvailabilityHigh:
			s.High = count
		}
	}
	return s, rows.Err()
}

func (r *PostgresAnalyticsRepository) GetDashboard(ctx context.Context) (Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var d Dashboard
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&d.TotalProducts); err != nil {
		return Dashboard{}, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements`).Scan(&d.TotalRegistrations); err != nil {
		return Dashboard{}, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE state = $1`, vision.SentinelLabel).Scan(&d.UncertainStates); err != nil {
		return Dashboard{}, err
	}
	err := r.db.QueryRowContext(ctx, `
		SELECT p.name
		FROM movements m
		JOIN products p ON m.product_id = p.id
		GROUP BY p.name
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`).Scan(&d.MostSighted)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Dashboard{}, err
	}
	return d, nil
}
