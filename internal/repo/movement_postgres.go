package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-vision/internal/models"
)

type PostgresMovementRepository struct {
	db *sql.DB
}

func NewPostgresMovementRepository(db *sql.DB) *PostgresMovementRepository {
	return &PostgresMovementRepository{db: db}
}

const defaultMovementLimit = 100

// Log inserts a new inventory movement.
func (r *PostgresMovementRepository) Log(ctx context.Context, productID, delta int) error {
	query := `INSERT INTO movements (product_id, delta, created_at) VALUES ($1, $2, $3)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, query, productID, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

// ListByProduct returns movements for a product, newest first, with the total
// count for the filter window.
func (r *PostgresMovementRepository) ListByProduct(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error) {
	whereClause, args := buildMovementWhere(productID, mf)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	countQuery := "SELECT COUNT(*) FROM movements " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	query := "SELECT id, product_id, delta, created_at FROM movements " + whereClause +
		" ORDER BY created_at DESC"
	argIndex := len(args) + 1

	limit := defaultMovementLimit
	if mf.Limit != nil && *mf.Limit > 0 {
		limit = min(*mf.Limit, defaultMovementLimit)
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if mf.Offset != nil && *mf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, *mf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var movements []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Delta, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

func buildMovementWhere(productID int, mf MovementFilter) (string, []any) {
	args := []any{productID}
	whereClause := "WHERE product_id = $1"
	argIndex := 2

	if mf.Since != nil {
		whereClause += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *mf.Since)
		argIndex++
	}
	if mf.Until != nil {
		whereClause += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *mf.Until)
	}
	return whereClause, args
}

