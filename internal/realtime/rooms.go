package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"food-track/internal/general/logger"
	"food-track/internal/ports"
)

// RoomManager fans room events out to subscribed connections. One room per
// order id, created on first join and removed with its last member. Delivery
// is best-effort and at most once; a failed write drops the subscriber from
// every room it is in.
type RoomManager struct {
	logger *logger.Logger

	mu sync.RWMutex
	// rooms: order id -> member set. membership is the reverse index used to
	// clean up a connection that dies while subscribed to several rooms.
	rooms      map[string]map[Subscriber]struct{}
	membership map[Subscriber]map[string]struct{}
}

var _ ports.RoomBroadcaster = (*RoomManager)(nil)

// NewRoomManager creates an empty room registry.
func NewRoomManager(logger *logger.Logger) *RoomManager {
	return &RoomManager{
		logger:     logger,
		rooms:      make(map[string]map[Subscriber]struct{}),
		membership: make(map[Subscriber]map[string]struct{}),
	}
}

// Join adds the subscriber to the order's room. Joining a room the
// subscriber is already in is a no-op.
func (m *RoomManager) Join(orderID string, sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[orderID]
	if !ok {
		room = make(map[Subscriber]struct{})
		m.rooms[orderID] = room
	}
	room[sub] = struct{}{}

	rooms, ok := m.membership[sub]
	if !ok {
		rooms = make(map[string]struct{})
		m.membership[sub] = rooms
	}
	rooms[orderID] = struct{}{}
}

// Leave removes the subscriber from the order's room. Leaving a room the
// subscriber is not in is a no-op.
func (m *RoomManager) Leave(orderID string, sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(orderID, sub)
}

// DropConn removes the subscriber from every room it joined. Called when the
// connection closes or a delivery fails.
func (m *RoomManager) DropConn(sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for orderID := range m.membership[sub] {
		m.leaveLocked(orderID, sub)
	}
}

// Broadcast encodes the event once and delivers it to every member of the
// order's room. An empty or absent room is a silent no-op. Failed members
// are dropped after the fan-out.
func (m *RoomManager) Broadcast(ctx context.Context, orderID, event string, payload any) {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		m.logger.Error(ctx, "room_event_encode_failed", "Failed to encode room event", err, map[string]any{
			"order_id": orderID,
			"event":    event,
		})
		return
	}

	m.mu.RLock()
	members := make([]Subscriber, 0, len(m.rooms[orderID]))
	for sub := range m.rooms[orderID] {
		members = append(members, sub)
	}
	m.mu.RUnlock()

	if len(members) == 0 {
		return
	}

	var failed []Subscriber
	for _, sub := range members {
		if err := sub.Deliver(frame); err != nil {
			failed = append(failed, sub)
		}
	}

	for _, sub := range failed {
		m.DropConn(sub)
		sub.Shutdown()
	}

	if len(failed) > 0 {
		m.logger.Debug(ctx, "room_members_dropped", "Dropped unreachable room members", map[string]any{
			"order_id": orderID,
			"event":    event,
			"dropped":  len(failed),
		})
	}
}

// RoomSize reports the member count for an order's room.
func (m *RoomManager) RoomSize(orderID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[orderID])
}

// Shutdown closes every subscriber and clears the registry.
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	subs := m.membership
	m.rooms = make(map[string]map[Subscriber]struct{})
	m.membership = make(map[Subscriber]map[string]struct{})
	m.mu.Unlock()

	for sub := range subs {
		sub.Shutdown()
	}
}

// leaveLocked removes the subscriber from one room and prunes empty sets.
// Caller holds m.mu.
func (m *RoomManager) leaveLocked(orderID string, sub Subscriber) {
	if room, ok := m.rooms[orderID]; ok {
		delete(room, sub)
		if len(room) == 0 {
			delete(m.rooms, orderID)
		}
	}
	if rooms, ok := m.membership[sub]; ok {
		delete(rooms, orderID)
		if len(rooms) == 0 {
			delete(m.membership, sub)
		}
	}
}

// encodeFrame wraps the payload in the {type, data} envelope all room
// events share on the wire.
func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}{Type: event, Data: data})
}
