package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"food-track/internal/general/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (f *fakeSubscriber) Deliver(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer gone")
	}
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeSubscriber) Shutdown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSubscriber) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func newTestRooms() *RoomManager {
	return NewRoomManager(logger.New("rooms-test"))
}

func TestRoomManager(t *testing.T) {
	ctx := context.Background()

	t.Run("join is idempotent", func(t *testing.T) {
		rooms := newTestRooms()
		sub := &fakeSubscriber{}

		rooms.Join("ord-1", sub)
		rooms.Join("ord-1", sub)
		assert.Equal(t, 1, rooms.RoomSize("ord-1"))

		rooms.Broadcast(ctx, "ord-1", "status_changed", map[string]string{"order_id": "ord-1"})
		assert.Equal(t, 1, sub.frameCount(), "one member gets one frame")
	})

	t.Run("broadcast wraps payload in type/data envelope", func(t *testing.T) {
		rooms := newTestRooms()
		sub := &fakeSubscriber{}
		rooms.Join("ord-1", sub)

		rooms.Broadcast(ctx, "ord-1", "location_updated", map[string]float64{"latitude": 40.7})

		require.Equal(t, 1, sub.frameCount())
		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(sub.frames[0], &frame))
		assert.Equal(t, "location_updated", frame.Type)

		var data map[string]float64
		require.NoError(t, json.Unmarshal(frame.Data, &data))
		assert.Equal(t, 40.7, data["latitude"])
	})

	t.Run("empty room broadcast is a no-op", func(t *testing.T) {
		rooms := newTestRooms()
		rooms.Broadcast(ctx, "ord-unknown", "status_changed", map[string]string{})
		assert.Equal(t, 0, rooms.RoomSize("ord-unknown"))
	})

	t.Run("leave stops delivery", func(t *testing.T) {
		rooms := newTestRooms()
		sub := &fakeSubscriber{}
		rooms.Join("ord-1", sub)
		rooms.Leave("ord-1", sub)

		rooms.Broadcast(ctx, "ord-1", "status_changed", map[string]string{})
		assert.Equal(t, 0, sub.frameCount())
		assert.Equal(t, 0, rooms.RoomSize("ord-1"))
	})

	t.Run("leaving an unjoined room is a no-op", func(t *testing.T) {
		rooms := newTestRooms()
		rooms.Leave("ord-1", &fakeSubscriber{})
	})

	t.Run("drop removes the connection from every room", func(t *testing.T) {
		rooms := newTestRooms()
		sub := &fakeSubscriber{}
		other := &fakeSubscriber{}
		rooms.Join("ord-1", sub)
		rooms.Join("ord-2", sub)
		rooms.Join("ord-1", other)

		rooms.DropConn(sub)

		assert.Equal(t, 1, rooms.RoomSize("ord-1"))
		assert.Equal(t, 0, rooms.RoomSize("ord-2"))

		rooms.Broadcast(ctx, "ord-1", "status_changed", map[string]string{})
		assert.Equal(t, 0, sub.frameCount())
		assert.Equal(t, 1, other.frameCount())
	})

	t.Run("failed delivery drops the subscriber", func(t *testing.T) {
		rooms := newTestRooms()
		bad := &fakeSubscriber{fail: true}
		good := &fakeSubscriber{}
		rooms.Join("ord-1", bad)
		rooms.Join("ord-1", good)

		rooms.Broadcast(ctx, "ord-1", "status_changed", map[string]string{})

		assert.True(t, bad.closed)
		assert.Equal(t, 1, rooms.RoomSize("ord-1"))
		assert.Equal(t, 1, good.frameCount())
	})

	t.Run("shutdown closes everyone", func(t *testing.T) {
		rooms := newTestRooms()
		a, b := &fakeSubscriber{}, &fakeSubscriber{}
		rooms.Join("ord-1", a)
		rooms.Join("ord-2", b)

		rooms.Shutdown()

		assert.True(t, a.closed)
		assert.True(t, b.closed)
		assert.Equal(t, 0, rooms.RoomSize("ord-1"))
	})
}
