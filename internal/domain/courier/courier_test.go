package courier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourierLifecycle(t *testing.T) {
	t.Run("new courier is available", func(t *testing.T) {
		c, err := NewCourier("Dana")
		require.NoError(t, err)
		assert.True(t, c.IsAvailable)
		assert.Empty(t, c.ActiveOrderIDs)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := NewCourier("   ")
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("take order marks busy and is exclusive", func(t *testing.T) {
		c, _ := NewCourier("Dana")
		require.NoError(t, c.TakeOrder("ord-1"))
		assert.False(t, c.IsAvailable)
		assert.True(t, c.HasActiveOrder("ord-1"))

		assert.ErrorIs(t, c.TakeOrder("ord-2"), ErrUnavailable)
	})

	t.Run("release frees the courier", func(t *testing.T) {
		c, _ := NewCourier("Dana")
		require.NoError(t, c.TakeOrder("ord-1"))

		c.ReleaseOrder("ord-1")
		assert.True(t, c.IsAvailable)
		assert.False(t, c.HasActiveOrder("ord-1"))
		assert.Zero(t, c.CompletedDeliveries)
	})

	t.Run("complete bumps the counter", func(t *testing.T) {
		c, _ := NewCourier("Dana")
		require.NoError(t, c.TakeOrder("ord-1"))

		c.CompleteOrder("ord-1")
		assert.True(t, c.IsAvailable)
		assert.Equal(t, 1, c.CompletedDeliveries)
	})

	t.Run("releasing an unheld order is a no-op on the set", func(t *testing.T) {
		c, _ := NewCourier("Dana")
		c.ReleaseOrder("ord-404")
		assert.Empty(t, c.ActiveOrderIDs)
		assert.True(t, c.IsAvailable)
	})
}
