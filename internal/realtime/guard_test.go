package realtime

import (
	"context"
	"testing"

	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"

	"github.com/stretchr/testify/assert"
)

type passthroughUOW struct{}

func (passthroughUOW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// guardOrderStore serves GetByID from a fixed map; the guard uses nothing else.
type guardOrderStore struct {
	orders map[string]*order.Order
}

func (s *guardOrderStore) GetByID(_ context.Context, id string) (*order.Order, error) {
	ord, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return ord, nil
}

func (s *guardOrderStore) CreateOrder(context.Context, *order.Order) error { return nil }
func (s *guardOrderStore) UpdateStatus(context.Context, *order.Order, order.HistoryEntry) error {
	return nil
}
func (s *guardOrderStore) SetCourier(context.Context, string, string) error { return nil }
func (s *guardOrderStore) UpdateDeliveryLocation(context.Context, string, geo.Point) error {
	return nil
}
func (s *guardOrderStore) CourierAssignment(context.Context, string) (*string, error) {
	return nil, nil
}

func newGuardFixture() *Guard {
	courierID := "cour-9"
	return NewGuard(passthroughUOW{}, &guardOrderStore{orders: map[string]*order.Order{
		"ord-1": {
			ID:           "ord-1",
			CustomerID:   "cust-1",
			RestaurantID: "rest-5",
			CourierID:    &courierID,
		},
	}})
}

func TestAuthorizeJoin(t *testing.T) {
	ctx := context.Background()
	guard := newGuardFixture()

	t.Run("unknown order", func(t *testing.T) {
		err := guard.AuthorizeJoin(ctx, Customer{ID: "cust-1"}, "ord-404")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("customer owns the order", func(t *testing.T) {
		assert.NoError(t, guard.AuthorizeJoin(ctx, Customer{ID: "cust-1"}, "ord-1"))
	})

	t.Run("customer on someone else's order", func(t *testing.T) {
		err := guard.AuthorizeJoin(ctx, Customer{ID: "cust-2"}, "ord-1")
		assert.ErrorIs(t, err, ErrNotYourOrder)
	})

	t.Run("assigned courier", func(t *testing.T) {
		assert.NoError(t, guard.AuthorizeJoin(ctx, Courier{ID: "cour-9"}, "ord-1"))
	})

	t.Run("unassigned courier", func(t *testing.T) {
		err := guard.AuthorizeJoin(ctx, Courier{ID: "cour-2"}, "ord-1")
		assert.ErrorIs(t, err, ErrNotAssigned)
	})

	t.Run("restaurant staff of the right restaurant", func(t *testing.T) {
		assert.NoError(t, guard.AuthorizeJoin(ctx, Restaurant{UserID: "staff-1", RestaurantID: "rest-5"}, "ord-1"))
	})

	t.Run("restaurant staff of another restaurant", func(t *testing.T) {
		err := guard.AuthorizeJoin(ctx, Restaurant{UserID: "staff-2", RestaurantID: "rest-7"}, "ord-1")
		assert.ErrorIs(t, err, ErrNotYourRestaurant)
	})

	t.Run("admin joins anything", func(t *testing.T) {
		assert.NoError(t, guard.AuthorizeJoin(ctx, Admin{ID: "admin-1"}, "ord-1"))
	})
}
