package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	ord, err := NewOrder("cust-1", "rest-1", []Item{{Name: "Pad Thai", Quantity: 2, Price: 11.50}}, 23.00)
	require.NoError(t, err)
	ord.ID = "ord-1"
	return ord
}

func TestNewOrder(t *testing.T) {
	t.Run("starts pending with initial history", func(t *testing.T) {
		ord := newTestOrder(t)

		assert.Equal(t, StatusPending, ord.Status)
		require.Len(t, ord.StatusHistory, 1)
		assert.Equal(t, StatusPending, ord.StatusHistory[0].Status)
		assert.Equal(t, "system", ord.StatusHistory[0].ActorLabel)
	})

	t.Run("requires customer and restaurant", func(t *testing.T) {
		_, err := NewOrder("", "rest-1", nil, 0)
		assert.ErrorIs(t, err, ErrCustomerRequired)

		_, err = NewOrder("cust-1", "  ", nil, 0)
		assert.ErrorIs(t, err, ErrRestaurantRequired)
	})
}

func TestTransition(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.AssignCourier("cour-1"))

		for _, target := range []Status{StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered} {
			require.NoError(t, ord.Transition(target, "restaurant"))
			assert.Equal(t, target, ord.Status)
		}
		// initial + four transitions
		assert.Len(t, ord.StatusHistory, 5)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		ord := newTestOrder(t)
		err := ord.Transition(Status("IN_FLIGHT"), "restaurant")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Equal(t, StatusPending, ord.Status)
	})

	t.Run("terminal states cannot be left", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.Transition(StatusCancelled, "customer"))

		err := ord.Transition(StatusConfirmed, "restaurant")
		assert.ErrorIs(t, err, ErrTerminalState)
		assert.Equal(t, StatusCancelled, ord.Status)
	})

	t.Run("cancel allowed from any non-terminal state", func(t *testing.T) {
		for _, from := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery} {
			ord := newTestOrder(t)
			require.NoError(t, ord.AssignCourier("cour-1"))
			if from != StatusPending {
				require.NoError(t, ord.Transition(from, "restaurant"))
			}
			assert.NoError(t, ord.Transition(StatusCancelled, "admin"), "cancel from %s", from)
		}
	})

	t.Run("reapplying the current status is recorded", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.Transition(StatusConfirmed, "restaurant"))
		require.NoError(t, ord.Transition(StatusConfirmed, "restaurant"))

		assert.Equal(t, StatusConfirmed, ord.Status)
		assert.Len(t, ord.StatusHistory, 3)
	})

	t.Run("courier required before out_for_delivery and delivered", func(t *testing.T) {
		ord := newTestOrder(t)

		assert.ErrorIs(t, ord.Transition(StatusOutForDelivery, "restaurant"), ErrNoCourierAssigned)
		assert.ErrorIs(t, ord.Transition(StatusDelivered, "courier"), ErrNoCourierAssigned)
		assert.Empty(t, ord.StatusHistory[1:], "failed transitions must not append history")
	})

	t.Run("eta stamped once on first out_for_delivery", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.AssignCourier("cour-1"))
		require.NoError(t, ord.Transition(StatusOutForDelivery, "restaurant"))

		require.NotNil(t, ord.EstimatedDeliveryTime)
		first := *ord.EstimatedDeliveryTime
		assert.WithinDuration(t, time.Now().UTC().Add(DeliveryWindow), first, 2*time.Second)

		// reapply; the stamp must not move
		require.NoError(t, ord.Transition(StatusOutForDelivery, "restaurant"))
		assert.Equal(t, first, *ord.EstimatedDeliveryTime)
	})

	t.Run("history records actor and ordering", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.Transition(StatusConfirmed, "restaurant"))
		require.NoError(t, ord.Transition(StatusCancelled, "admin"))

		last := ord.LastHistory()
		require.NotNil(t, last)
		assert.Equal(t, StatusCancelled, last.Status)
		assert.Equal(t, "admin", last.ActorLabel)

		for i := 1; i < len(ord.StatusHistory); i++ {
			assert.False(t, ord.StatusHistory[i].RecordedAt.Before(ord.StatusHistory[i-1].RecordedAt))
		}
	})
}

func TestAssignCourier(t *testing.T) {
	t.Run("sets and replaces the reference", func(t *testing.T) {
		ord := newTestOrder(t)
		require.NoError(t, ord.AssignCourier("cour-1"))
		require.NoError(t, ord.AssignCourier("cour-2"))
		require.NotNil(t, ord.CourierID)
		assert.Equal(t, "cour-2", *ord.CourierID)
	})

	t.Run("rejects blank id and terminal orders", func(t *testing.T) {
		ord := newTestOrder(t)
		assert.ErrorIs(t, ord.AssignCourier("  "), ErrCourierRequired)

		require.NoError(t, ord.Transition(StatusCancelled, "customer"))
		assert.ErrorIs(t, ord.AssignCourier("cour-1"), ErrTerminalState)
	})
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, got)

	_, err = ParseStatus("teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusOutForDelivery} {
		assert.False(t, s.Terminal(), "%s must not be terminal", s)
	}
}
