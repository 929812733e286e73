package ports

import (
	"context"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"
	"food-track/internal/domain/user"
)

// UnitOfWork interface is used to manage transactions across multiple repository operations.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository defines the durable-store methods for order tracking data.
type OrderRepository interface {
	CreateOrder(ctx context.Context, ord *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)

	// UpdateStatus persists the order's status, estimated delivery time and
	// updated_at, and appends one row to the status history.
	UpdateStatus(ctx context.Context, ord *order.Order, entry order.HistoryEntry) error

	// SetCourier persists the courier reference on the order.
	SetCourier(ctx context.Context, orderID, courierID string) error

	// UpdateDeliveryLocation stamps the last known delivery coordinate.
	// Cheap single-row update for the high-frequency location path.
	UpdateDeliveryLocation(ctx context.Context, orderID string, pt geo.Point) error

	// CourierAssignment returns the assigned courier id without loading the
	// full order. nil means no courier is assigned yet.
	CourierAssignment(ctx context.Context, orderID string) (*string, error)
}

// CourierRepository defines the methods for courier availability and location mirroring.
type CourierRepository interface {
	CreateCourier(ctx context.Context, c *courier.Courier) error
	GetByID(ctx context.Context, id string) (*courier.Courier, error)

	// SaveBookkeeping persists availability, the active-order set and the
	// completed-delivery counter.
	SaveBookkeeping(ctx context.Context, c *courier.Courier) error

	// UpdateLocation mirrors the latest GPS sample onto the courier row.
	UpdateLocation(ctx context.Context, courierID string, pt geo.Point) error
}

// UserRepository is the read-only collaborator surface used by the connection authenticator.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// LocationSample is the value held by the ephemeral location cache.
type LocationSample struct {
	OrderID   string    `json:"order_id"`
	CourierID string    `json:"courier_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SampledAt time.Time `json:"sampled_at"`
}

// LocationCache is the ephemeral fast path for the most recent coordinate
// sample per order. Entries expire on their own; a miss is a valid state and
// is reported as (nil, nil), never as an error.
type LocationCache interface {
	Set(ctx context.Context, sample LocationSample) error
	Get(ctx context.Context, orderID string) (*LocationSample, error)
	Purge(ctx context.Context, orderID string) error
}

// RoomBroadcaster is the coordinator's one-way view of the broadcast layer.
// Delivery is best-effort and at most once; broadcasting into an empty room
// is a silent no-op.
type RoomBroadcaster interface {
	Broadcast(ctx context.Context, orderID, event string, payload any)
}

// EventPublisher publishes messages to the message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}
