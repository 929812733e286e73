package realtime

import (
	"context"
	"errors"

	"food-track/internal/domain/order"
	"food-track/internal/ports"
)

// Denial reasons sent verbatim to the client on a rejected join.
var (
	ErrOrderNotFound     = errors.New("Order not found")
	ErrNotYourOrder      = errors.New("Not your order")
	ErrNotAssigned       = errors.New("Not assigned to you")
	ErrNotYourRestaurant = errors.New("Not your restaurant's order")
	ErrUnauthorizedRole  = errors.New("Unauthorized role")
)

// Guard decides whether a principal may subscribe to an order's room.
type Guard struct {
	uow    ports.UnitOfWork
	orders ports.OrderRepository
}

// NewGuard creates a room authorization guard backed by the order store.
func NewGuard(uow ports.UnitOfWork, orders ports.OrderRepository) *Guard {
	return &Guard{uow: uow, orders: orders}
}

// AuthorizeJoin loads the order and checks the principal's claim on it.
// Admin joins any room; every other role must match the order record.
func (g *Guard) AuthorizeJoin(ctx context.Context, p Principal, orderID string) error {
	var ord *order.Order
	err := g.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ord, err = g.orders.GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	switch pr := p.(type) {
	case Customer:
		if ord.CustomerID != pr.ID {
			return ErrNotYourOrder
		}
		return nil

	case Courier:
		if ord.CourierID == nil || *ord.CourierID != pr.ID {
			return ErrNotAssigned
		}
		return nil

	case Restaurant:
		if ord.RestaurantID != pr.RestaurantID {
			return ErrNotYourRestaurant
		}
		return nil

	case Admin:
		return nil

	default:
		return ErrUnauthorizedRole
	}
}
