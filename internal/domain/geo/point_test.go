package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	t.Run("accepts boundary values", func(t *testing.T) {
		for _, tc := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
			pt, err := NewPoint(tc[0], tc[1], time.Now().UTC())
			require.NoError(t, err)
			assert.Equal(t, tc[0], pt.Latitude)
			assert.Equal(t, tc[1], pt.Longitude)
		}
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		_, err := NewPoint(90.0001, 0, time.Time{})
		assert.ErrorIs(t, err, ErrInvalidLatitude)

		_, err = NewPoint(0, -180.0001, time.Time{})
		assert.ErrorIs(t, err, ErrInvalidLongitude)
	})

	t.Run("zero time defaults to now", func(t *testing.T) {
		pt, err := NewPoint(1, 2, time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), pt.UpdatedAt, time.Second)
	})
}
