package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, barcode, name, brand, model, category_id, compatibility,
	notes, state, stock_quantity, availability, image_url, created_at, updated_at`

func scanProduct(row *sql.Row) (models.Product, error) {
	var p models.Product
	var categoryID sql.NullInt64
	err := row.Scan(&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.Model, &categoryID,
		&p.Compatibility, &p.Notes, &p.State, &p.StockQuantity, &p.Availability,
		&p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		p.CategoryID = &id
	}
	return p, nil
}

func (r *PostgresProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		var categoryID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.Model, &categoryID,
			&p.Compatibility, &p.Notes, &p.State, &p.StockQuantity, &p.Availability,
			&p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if categoryID.Valid {
			id := int(categoryID.Int64)
			p.CategoryID = &id
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductRepository) GetByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE barcode = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, barcode))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

// RecordSighting relies on the unique index on barcode: concurrent sightings
// of a new barcode cannot double-insert, one of them takes the update arm.
// The CASE expressions mirror Availability for the incremented quantity.
func (r *PostgresProductRepository) RecordSighting(ctx context.Context, s Sighting) (models.Product, error) {
	meta := normalizeMeta(s.Meta)
	now := time.Now().UTC()

	query := `
		INSERT INTO products
			(barcode, name, brand, model, category_id, compatibility, notes,
			 state, stock_quantity, availability, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10, $11, $11)
		ON CONFLICT (barcode) DO UPDATE SET
			stock_quantity = products.stock_quantity + 1,
			state = CASE WHEN $12 THEN EXCLUDED.state ELSE products.state END,
			availability = CASE
				WHEN products.stock_quantity + 1 <= 4 THEN 'low availability'
				WHEN products.stock_quantity + 1 <= 10 THEN 'medium availability'
				ELSE 'high availability'
			END,
			image_url = EXCLUDED.image_url,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + productColumns

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var categoryID any
	if meta.CategoryID != nil {
		categoryID = *meta.CategoryID
	}
	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		s.Barcode, meta.Name, meta.Brand, meta.Model, categoryID,
		meta.Compatibility, meta.Notes, s.State, Availability(1), s.ImageURL,
		now, s.UpdateState))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return models.Product{}, ErrInvalidCategory
		}
		return models.Product{}, err
	}
	return p, nil
}
