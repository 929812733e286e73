package contracts

import "time"

// Payloads for realtime room events. The room manager wraps these in a
// {type, data} envelope before writing to the socket.

// StatusChangedEvent is broadcast after every successful status transition.
type StatusChangedEvent struct {
	OrderID               string     `json:"order_id"`
	Status                string     `json:"status"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	Timestamp             time.Time  `json:"timestamp"`
}

// CourierAssignedEvent is broadcast when a courier takes the order.
type CourierAssignedEvent struct {
	OrderID               string       `json:"order_id"`
	Courier               CourierBrief `json:"courier"`
	EstimatedDeliveryTime *time.Time   `json:"estimated_delivery_time,omitempty"`
}

// LocationUpdatedEvent is broadcast on every accepted GPS report.
type LocationUpdatedEvent struct {
	OrderID   string    `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// DeliveredEvent is broadcast once when the order reaches DELIVERED.
type DeliveredEvent struct {
	OrderID     string    `json:"order_id"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// CourierBrief is the courier view shared with room subscribers.
type CourierBrief struct {
	CourierID string    `json:"courier_id"`
	Name      string    `json:"name,omitempty"`
	Location  *GeoPoint `json:"location,omitempty"`
}
