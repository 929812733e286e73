package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout   = 5 * time.Second
	wsCloseAckWindow = 2 * time.Second
	ctrlTimeout      = 5 * time.Second
)

// Subscriber is one delivery target inside a room. The room manager never
// retries a failed delivery; a failing subscriber gets dropped.
type Subscriber interface {
	// Deliver writes one already-encoded text frame to the peer.
	Deliver(payload []byte) error
	// Shutdown closes the underlying transport.
	Shutdown()
}

// wsSubscriber wraps a gorilla connection with a write lock so the read
// loop, the ping loop and room broadcasts never interleave frames.
type wsSubscriber struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newWSSubscriber(conn *websocket.Conn) *wsSubscriber {
	return &wsSubscriber{conn: conn}
}

func (s *wsSubscriber) Deliver(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// ping sends a control ping under the same write lock as data frames.
func (s *wsSubscriber) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(ctrlTimeout))
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctrlTimeout))
}

// writeClose sends a close frame with the given code and reason.
func (s *wsSubscriber) writeClose(code int, reason string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(wsCloseAckWindow),
	)
}

func (s *wsSubscriber) Shutdown() {
	_ = s.conn.Close()
}
