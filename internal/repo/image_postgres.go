package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

type PostgresStoredImageRepository struct {
	db *sql.DB
}

func NewPostgresStoredImageRepository(db *sql.DB) *PostgresStoredImageRepository {
	return &PostgresStoredImageRepository{db: db}
}

func (r *PostgresStoredImageRepository) Insert(ctx context.Context, img models.StoredImage) (int, error) {
	query := `INSERT INTO stored_images (product_id, storage_path, width, height, captured_at, captured_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int
	err := r.db.QueryRowContext(ctx, query, img.ProductID, img.StoragePath,
		img.Width, img.Height, img.CapturedAt, img.CapturedBy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert stored image: %w", err)
	}
	return id, nil
}

func (r *PostgresStoredImageRepository) ListByProduct(ctx context.Context, productID int) ([]models.StoredImage, error) {
	query := `SELECT id, product_id, storage_path, width, height, captured_at, captured_by
		FROM stored_images WHERE product_id = $1 ORDER BY captured_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.StoredImage
	for rows.Next() {
		var img models.StoredImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.StoragePath,
			&img.Width, &img.Height, &img.CapturedAt, &img.CapturedBy); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
