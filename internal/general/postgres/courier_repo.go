package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/geo"
	"food-track/internal/ports"

	"github.com/jackc/pgx/v5"
)

// CourierRepo persists couriers using pgx and plain SQL.
type CourierRepo struct{}

// NewCourierRepo constructs a new CourierRepo.
func NewCourierRepo() ports.CourierRepository {
	return &CourierRepo{}
}

// CreateCourier inserts a new courier row.
func (repo *CourierRepo) CreateCourier(ctx context.Context, c *courier.Courier) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO couriers (name, is_available, completed_deliveries)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.Name, c.IsAvailable, c.CompletedDeliveries).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert courier: %w", err)
	}
	return nil
}

// GetByID fetches a courier with its active-order set. Locks the courier row
// so concurrent assignment attempts serialize on it. Returns
// courier.ErrNotFound for an unknown id.
func (repo *CourierRepo) GetByID(ctx context.Context, id string) (*courier.Courier, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out courier.Courier
	var lat, lng *float64
	var locUpdatedAt *time.Time

	err = tx.QueryRow(ctx, `
		SELECT id, created_at, updated_at, name, current_lat, current_lng,
		       location_updated_at, is_available, completed_deliveries
		FROM couriers
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.Name, &lat, &lng,
		&locUpdatedAt, &out.IsAvailable, &out.CompletedDeliveries,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, courier.ErrNotFound
		}
		return nil, fmt.Errorf("select courier: %w", err)
	}

	if lat != nil && lng != nil {
		at := out.UpdatedAt
		if locUpdatedAt != nil {
			at = *locUpdatedAt
		}
		out.CurrentLocation = &geo.Point{Latitude: *lat, Longitude: *lng, UpdatedAt: at}
	}

	rows, err := tx.Query(ctx, `
		SELECT order_id FROM courier_active_orders WHERE courier_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query active orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, fmt.Errorf("scan active order: %w", err)
		}
		out.ActiveOrderIDs = append(out.ActiveOrderIDs, orderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("active order rows: %w", err)
	}

	return &out, nil
}

// SaveBookkeeping persists availability, the completed counter and the
// active-order set. The set is replaced wholesale; membership is small (a
// courier holds at most a handful of orders).
func (repo *CourierRepo) SaveBookkeeping(ctx context.Context, c *courier.Courier) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE couriers
		SET is_available = $1,
		    completed_deliveries = $2,
		    updated_at = $3
		WHERE id = $4
	`, c.IsAvailable, c.CompletedDeliveries, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update courier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return courier.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM courier_active_orders WHERE courier_id = $1
	`, c.ID); err != nil {
		return fmt.Errorf("clear active orders: %w", err)
	}
	for _, orderID := range c.ActiveOrderIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO courier_active_orders (courier_id, order_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, c.ID, orderID); err != nil {
			return fmt.Errorf("insert active order: %w", err)
		}
	}

	return nil
}

// UpdateLocation mirrors the latest GPS sample onto the courier row.
func (repo *CourierRepo) UpdateLocation(ctx context.Context, courierID string, pt geo.Point) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE couriers
		SET current_lat = $1,
		    current_lng = $2,
		    location_updated_at = $3,
		    updated_at = now()
		WHERE id = $4
	`, pt.Latitude, pt.Longitude, pt.UpdatedAt, courierID)
	if err != nil {
		return fmt.Errorf("update courier location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return courier.ErrNotFound
	}
	return nil
}
