package courier

import (
	"errors"
	"slices"
	"strings"
	"time"

	"food-track/internal/domain/geo"
)

// Courier is the domain entity corresponding to the `couriers` table. The
// tracking engine reads/writes it only for availability, active-order
// membership and location mirroring.
type Courier struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Name            string
	CurrentLocation *geo.Point
	IsAvailable     bool

	// ActiveOrderIDs is set membership; ordering is not significant.
	ActiveOrderIDs []string

	CompletedDeliveries int
}

var (
	ErrNotFound     = errors.New("courier not found")
	ErrNameRequired = errors.New("courier name is required")
	ErrUnavailable  = errors.New("courier is not available")
)

// NewCourier creates an available courier with no active orders.
func NewCourier(name string) (*Courier, error) {
	if name = strings.TrimSpace(name); name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	return &Courier{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		IsAvailable: true,
	}, nil
}

// TakeOrder marks the courier busy with the given order.
func (c *Courier) TakeOrder(orderID string) error {
	if !c.IsAvailable {
		return ErrUnavailable
	}
	c.addActive(orderID)
	c.IsAvailable = false
	c.touch()
	return nil
}

// ReleaseOrder removes the order from the active set and frees the courier.
// Releasing an order the courier does not hold is a no-op on the set.
func (c *Courier) ReleaseOrder(orderID string) {
	c.removeActive(orderID)
	c.IsAvailable = true
	c.touch()
}

// CompleteOrder releases the order and bumps the completed-delivery counter.
func (c *Courier) CompleteOrder(orderID string) {
	c.removeActive(orderID)
	c.IsAvailable = true
	c.CompletedDeliveries++
	c.touch()
}

// UpdateLocation mirrors the latest GPS sample onto the courier.
func (c *Courier) UpdateLocation(latitude, longitude float64, at time.Time) error {
	pt, err := geo.NewPoint(latitude, longitude, at)
	if err != nil {
		return err
	}
	c.CurrentLocation = pt
	c.touch()
	return nil
}

// HasActiveOrder reports whether the order is in the courier's active set.
func (c *Courier) HasActiveOrder(orderID string) bool {
	return slices.Contains(c.ActiveOrderIDs, orderID)
}

func (c *Courier) addActive(orderID string) {
	if !slices.Contains(c.ActiveOrderIDs, orderID) {
		c.ActiveOrderIDs = append(c.ActiveOrderIDs, orderID)
	}
}

func (c *Courier) removeActive(orderID string) {
	c.ActiveOrderIDs = slices.DeleteFunc(c.ActiveOrderIDs, func(id string) bool {
		return id == orderID
	})
}

func (c *Courier) touch() {
	c.UpdatedAt = time.Now().UTC()
}
