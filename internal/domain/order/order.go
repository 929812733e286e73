package order

import (
	"errors"
	"strings"
	"time"

	"food-track/internal/domain/geo"
)

// DeliveryWindow is the fixed window added to "now" when an order first goes
// out for delivery. Policy constant, not a correctness constraint.
const DeliveryWindow = 35 * time.Minute

// HistoryEntry is one append-only record in the order's status timeline.
type HistoryEntry struct {
	Status     Status
	ActorLabel string
	RecordedAt time.Time
}

// Item is an order line owned by the order-placement collaborator. The
// tracking engine only carries it through snapshots.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is the domain entity corresponding to the `orders` table. The
// tracking engine owns the mutable tracking fields (status, courier,
// delivery location, ETA); items/amount belong to order placement.
type Order struct {
	// Identity & audit
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Ownership (immutable after creation)
	CustomerID   string
	RestaurantID string

	// Core state
	Status        Status
	StatusHistory []HistoryEntry

	// Delivery
	CourierID             *string // nil until assigned
	DeliveryLocation      *geo.Point
	EstimatedDeliveryTime *time.Time // set once, on first OUT_FOR_DELIVERY

	// Placement data (external collaborator's, read-only here)
	Items       []Item
	TotalAmount float64
}

var (
	ErrNotFound           = errors.New("order not found")
	ErrCustomerRequired   = errors.New("customer id is required")
	ErrRestaurantRequired = errors.New("restaurant id is required")
	ErrTerminalState      = errors.New("order is in a terminal state")
	ErrNoCourierAssigned  = errors.New("no courier assigned to order")
	ErrCourierRequired    = errors.New("courier id is required")
)

// NewOrder creates a new order in PENDING state with the initial history entry.
func NewOrder(customerID, restaurantID string, items []Item, totalAmount float64) (*Order, error) {
	if customerID = strings.TrimSpace(customerID); customerID == "" {
		return nil, ErrCustomerRequired
	}
	if restaurantID = strings.TrimSpace(restaurantID); restaurantID == "" {
		return nil, ErrRestaurantRequired
	}

	now := time.Now().UTC()
	ord := &Order{
		CreatedAt:    now,
		UpdatedAt:    now,
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Status:       StatusPending,
		StatusHistory: []HistoryEntry{
			{Status: StatusPending, ActorLabel: "system", RecordedAt: now},
		},
		Items:       items,
		TotalAmount: totalAmount,
	}

	return ord, nil
}

// Transition validates and applies a status change, appending to the history.
//
// Rules:
//   - target must be a member of the status enumeration,
//   - terminal states cannot be left,
//   - reapplying the current status is accepted and recorded (upstream
//     commands are delivered at most once and cannot be deduplicated),
//   - OUT_FOR_DELIVERY and DELIVERED require an assigned courier,
//   - first entry into OUT_FOR_DELIVERY stamps the estimated delivery time.
func (ord *Order) Transition(target Status, actorLabel string) error {
	if !target.Valid() {
		return ErrInvalidStatus
	}
	if ord.Status.Terminal() && target != ord.Status {
		return ErrTerminalState
	}
	if target.RequiresCourier() && !ord.HasCourier() {
		return ErrNoCourierAssigned
	}

	now := time.Now().UTC()
	if target == StatusOutForDelivery && ord.EstimatedDeliveryTime == nil {
		eta := now.Add(DeliveryWindow)
		ord.EstimatedDeliveryTime = &eta
	}

	ord.Status = target
	ord.StatusHistory = append(ord.StatusHistory, HistoryEntry{
		Status:     target,
		ActorLabel: strings.TrimSpace(actorLabel),
		RecordedAt: now,
	})
	ord.UpdatedAt = now
	return nil
}

// AssignCourier sets the courier reference. Reassignment to a different
// courier is allowed; releasing the previous courier's bookkeeping is the
// coordinator's job.
func (ord *Order) AssignCourier(courierID string) error {
	if courierID = strings.TrimSpace(courierID); courierID == "" {
		return ErrCourierRequired
	}
	if ord.Status.Terminal() {
		return ErrTerminalState
	}
	ord.CourierID = &courierID
	ord.touch()
	return nil
}

// SetDeliveryLocation records the last known courier position on the order.
func (ord *Order) SetDeliveryLocation(latitude, longitude float64, at time.Time) error {
	pt, err := geo.NewPoint(latitude, longitude, at)
	if err != nil {
		return err
	}
	ord.DeliveryLocation = pt
	ord.touch()
	return nil
}

// HasCourier reports whether a courier is currently assigned.
func (ord *Order) HasCourier() bool {
	return ord.CourierID != nil && *ord.CourierID != ""
}

// LastHistory returns the most recent history entry, or nil for a zero order.
func (ord *Order) LastHistory() *HistoryEntry {
	if len(ord.StatusHistory) == 0 {
		return nil
	}
	return &ord.StatusHistory[len(ord.StatusHistory)-1]
}

func (ord *Order) touch() {
	ord.UpdatedAt = time.Now().UTC()
}
