package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"
	"food-track/internal/ports"

	"github.com/jackc/pgx/v5"
)

// OrderRepo persists orders using pgx and plain SQL.
type OrderRepo struct{}

// NewOrderRepo constructs a new OrderRepo.
func NewOrderRepo() ports.OrderRepository {
	return &OrderRepo{}
}

// CreateOrder inserts a new order row plus its initial history entry.
func (repo *OrderRepo) CreateOrder(ctx context.Context, ord *order.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	items, err := json.Marshal(ord.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, restaurant_id, status, items, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`,
		ord.CustomerID,
		ord.RestaurantID,
		ord.Status.String(), // typically "PENDING"
		items,
		ord.TotalAmount,
	).Scan(&ord.ID, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, entry := range ord.StatusHistory {
		if err := insertHistory(ctx, tx, ord.ID, entry); err != nil {
			return err
		}
	}

	return nil
}

// GetByID fetches an order and its full status history by primary key (uuid).
// Returns order.ErrNotFound for an unknown id.
func (repo *OrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var out order.Order
	var status string
	var items []byte
	var lat, lng *float64
	var locUpdatedAt *time.Time

	err = tx.QueryRow(ctx, `
		SELECT
			id, created_at, updated_at, customer_id, restaurant_id, status,
			courier_id, delivery_lat, delivery_lng, delivery_location_updated_at,
			estimated_delivery_time, items, total_amount
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&out.ID, &out.CreatedAt, &out.UpdatedAt, &out.CustomerID, &out.RestaurantID, &status,
		&out.CourierID, &lat, &lng, &locUpdatedAt,
		&out.EstimatedDeliveryTime, &items, &out.TotalAmount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	out.Status = order.Status(status)

	if len(items) > 0 {
		if err := json.Unmarshal(items, &out.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	if lat != nil && lng != nil {
		at := out.UpdatedAt
		if locUpdatedAt != nil {
			at = *locUpdatedAt
		}
		out.DeliveryLocation = &geo.Point{Latitude: *lat, Longitude: *lng, UpdatedAt: at}
	}

	history, err := loadHistory(ctx, tx, out.ID)
	if err != nil {
		return nil, err
	}
	out.StatusHistory = history

	return &out, nil
}

// UpdateStatus persists the order's status, ETA and updated_at, and appends
// one status-history row.
func (repo *OrderRepo) UpdateStatus(ctx context.Context, ord *order.Order, entry order.HistoryEntry) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1,
		    estimated_delivery_time = $2,
		    updated_at = $3
		WHERE id = $4
	`, ord.Status.String(), ord.EstimatedDeliveryTime, ord.UpdatedAt, ord.ID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	return insertHistory(ctx, tx, ord.ID, entry)
}

// SetCourier persists the courier reference on the order.
func (repo *OrderRepo) SetCourier(ctx context.Context, orderID, courierID string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET courier_id = $1,
		    updated_at = now()
		WHERE id = $2
	`, courierID, orderID)
	if err != nil {
		return fmt.Errorf("set order courier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// UpdateDeliveryLocation stamps the last known coordinate. Single-row update;
// no history, no full reload — this is the high-frequency path.
func (repo *OrderRepo) UpdateDeliveryLocation(ctx context.Context, orderID string, pt geo.Point) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET delivery_lat = $1,
		    delivery_lng = $2,
		    delivery_location_updated_at = $3,
		    updated_at = now()
		WHERE id = $4
	`, pt.Latitude, pt.Longitude, pt.UpdatedAt, orderID)
	if err != nil {
		return fmt.Errorf("update delivery location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// CourierAssignment returns the assigned courier id (nil when unassigned)
// without loading the whole order.
func (repo *OrderRepo) CourierAssignment(ctx context.Context, orderID string) (*string, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var courierID *string
	err = tx.QueryRow(ctx, `
		SELECT courier_id FROM orders WHERE id = $1
	`, orderID).Scan(&courierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("select courier assignment: %w", err)
	}
	return courierID, nil
}

// ----- helpers -----

func insertHistory(ctx context.Context, tx pgx.Tx, orderID string, entry order.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, actor_label, recorded_at)
		VALUES ($1, $2, $3, $4)
	`, orderID, entry.Status.String(), entry.ActorLabel, entry.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

func loadHistory(ctx context.Context, tx pgx.Tx, orderID string) ([]order.HistoryEntry, error) {
	rows, err := tx.Query(ctx, `
		SELECT status, actor_label, recorded_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY recorded_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	var history []order.HistoryEntry
	for rows.Next() {
		var entry order.HistoryEntry
		var status string
		if err := rows.Scan(&status, &entry.ActorLabel, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		entry.Status = order.Status(status)
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("status history rows: %w", err)
	}

	return history, nil
}
