package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"food-track/internal/general/logger"
	"food-track/internal/ports"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit    = 1 << 20 // 1 MiB
	wsReadDeadline = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Socket is the WebSocket endpoint for order tracking. Clients authenticate
// on the upgrade request, then drive room membership with join/leave
// messages. Couriers may also push GPS reports over the same connection.
type Socket struct {
	logger  *logger.Logger
	auth    *Authenticator
	guard   *Guard
	rooms   *RoomManager
	tracker ports.TrackingService
}

// NewSocket creates the tracking WebSocket handler.
func NewSocket(logger *logger.Logger, auth *Authenticator, guard *Guard, rooms *RoomManager, tracker ports.TrackingService) *Socket {
	return &Socket{
		logger:  logger,
		auth:    auth,
		guard:   guard,
		rooms:   rooms,
		tracker: tracker,
	}
}

// RegisterRoutes attaches the tracking socket to the mux.
func (s *Socket) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/track", s.HandleTrack)
}

// HandleTrack upgrades the connection and runs the subscription loop.
func (s *Socket) HandleTrack(w http.ResponseWriter, r *http.Request) {
	// 1) Authenticate before upgrading; a bad token is a plain 401.
	principal, err := s.auth.FromRequest(r)
	if err != nil {
		s.logger.Error(r.Context(), "ws_auth_failed", "Rejected tracking handshake", err, nil)
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	// 2) Upgrade HTTP -> WS
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "websocket_upgrade_failed", "Failed to upgrade to WebSocket", err, nil)
		return
	}

	sub := newWSSubscriber(conn)

	// Teardown order (LIFO on return): leave rooms first, close socket last.
	defer conn.Close()
	defer s.rooms.DropConn(sub)

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	conn.SetPongHandler(func(_ string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
	})

	s.logger.Info(r.Context(), "ws_connected", "Tracking WebSocket connected",
		map[string]any{"role": principal.Label()})

	_ = s.sendFrame(sub, "connected", map[string]any{
		"role":      principal.Label(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	// 3) Ping loop using the per-connection writer lock.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(wsPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-pingDone:
				return
			case <-ticker.C:
				if err := sub.ping(); err != nil {
					// Close socket to unblock reader; goroutine exits.
					_ = conn.Close()
					s.logger.Error(r.Context(), "ws_ping_failed", "Failed to send ping", err, nil)
					return
				}
			}
		}
	}()

	// 4) Read loop: route envelope messages.
	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error(r.Context(), "ws_unexpected_close", "Tracking connection closed unexpectedly", err,
					map[string]any{"role": principal.Label()})
				sub.writeClose(websocket.CloseInternalServerErr, "internal error")
			} else {
				s.logger.Info(r.Context(), "ws_connection_closed", "Tracking connection closed normally",
					map[string]any{"role": principal.Label()})
				sub.writeClose(websocket.CloseNormalClosure, "bye")
			}
			return
		}

		// Minimal envelope
		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.sendError(sub, "", "bad json")
			continue
		}

		switch msg.Type {
		case "join_order_room":
			s.handleJoin(r, sub, principal, msg.Data)

		case "leave_order_room":
			s.handleLeave(r, sub, msg.Data)

		case "report_location":
			s.handleReportLocation(r, sub, principal, msg.Data)

		default:
			s.sendError(sub, "", "unknown message type")
		}
	}
}

// handleJoin authorizes the principal for the order's room and subscribes it.
func (s *Socket) handleJoin(r *http.Request, sub *wsSubscriber, principal Principal, raw json.RawMessage) {
	var in struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &in); err != nil || in.OrderID == "" {
		s.sendError(sub, in.OrderID, "missing order_id")
		return
	}

	if err := s.guard.AuthorizeJoin(r.Context(), principal, in.OrderID); err != nil {
		s.logger.Info(r.Context(), "room_join_denied", "Room join denied", map[string]any{
			"order_id": in.OrderID,
			"role":     principal.Label(),
			"reason":   err.Error(),
		})
		s.sendError(sub, in.OrderID, err.Error())
		return
	}

	s.rooms.Join(in.OrderID, sub)
	s.logger.Info(r.Context(), "room_joined", "Subscriber joined order room", map[string]any{
		"order_id": in.OrderID,
		"role":     principal.Label(),
	})
	_ = s.sendFrame(sub, "joined", map[string]any{"order_id": in.OrderID})
}

// handleLeave unsubscribes the connection from the order's room.
func (s *Socket) handleLeave(r *http.Request, sub *wsSubscriber, raw json.RawMessage) {
	var in struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &in); err != nil || in.OrderID == "" {
		s.sendError(sub, in.OrderID, "missing order_id")
		return
	}

	s.rooms.Leave(in.OrderID, sub)
	_ = s.sendFrame(sub, "room_left", map[string]any{"order_id": in.OrderID})
}

// handleReportLocation feeds a courier GPS sample into the tracking service.
// Only courier connections may report.
func (s *Socket) handleReportLocation(r *http.Request, sub *wsSubscriber, principal Principal, raw json.RawMessage) {
	var in struct {
		OrderID   string  `json:"order_id"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.Unmarshal(raw, &in); err != nil || in.OrderID == "" {
		s.sendError(sub, in.OrderID, "bad report_location payload")
		return
	}

	if _, ok := principal.(Courier); !ok {
		s.sendError(sub, in.OrderID, ErrUnauthorizedRole.Error())
		return
	}

	res, err := s.tracker.ReportLocation(r.Context(), ports.ReportLocationInput{
		OrderID:   in.OrderID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	})
	if err != nil {
		s.logger.Error(r.Context(), "ws_report_location_failed", "Courier location report failed", err,
			map[string]any{"order_id": in.OrderID})
		s.sendError(sub, in.OrderID, "failed to record location")
		return
	}

	_ = s.sendFrame(sub, "location_ack", res)
}

func (s *Socket) sendFrame(sub *wsSubscriber, event string, payload any) error {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		return err
	}
	return sub.Deliver(frame)
}

// sendError emits a flat error frame. The order id lets a client subscribed
// to several rooms attribute the failure to the request that caused it; it is
// omitted when the inbound payload never carried one.
func (s *Socket) sendError(sub *wsSubscriber, orderID, message string) {
	frame, err := json.Marshal(struct {
		Type    string `json:"type"`
		Error   string `json:"error"`
		OrderID string `json:"order_id,omitempty"`
	}{Type: "error", Error: message, OrderID: orderID})
	if err != nil {
		return
	}
	_ = sub.Deliver(frame)
}
