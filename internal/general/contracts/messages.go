package contracts

import "time"

// CourierLocationReport is consumed from QueueCourierLocationReports. The
// courier-app simulation publishes these at a few-second cadence.
type CourierLocationReport struct {
	OrderID   string    `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Envelope
}

// OrderEventMessage is published to ExchangeOrderTopic after each durable
// status change, for downstream collaborators (notifications, analytics).
type OrderEventMessage struct {
	OrderID               string     `json:"order_id"`
	Status                string     `json:"status"`
	ActorLabel            string     `json:"actor_label,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	Timestamp             time.Time  `json:"timestamp"`
	Envelope
}
