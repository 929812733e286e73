package ports

import (
	"context"
	"time"

	"food-track/internal/domain/order"
)

// ----- DTOs for the Tracking Service -----

// UpdateStatusInput is the validated input for a status change.
type UpdateStatusInput struct {
	OrderID    string
	Target     order.Status
	ActorLabel string // who drove the change: "restaurant", "admin", "courier-sim", ...
}

// UpdateStatusResult is returned by TrackingService.UpdateStatus.
type UpdateStatusResult struct {
	OrderID               string     `json:"order_id"`
	Status                string     `json:"status"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// AssignCourierInput is the validated input for courier assignment.
type AssignCourierInput struct {
	OrderID   string
	CourierID string
}

// CourierSummary is the courier view shared with room subscribers.
type CourierSummary struct {
	CourierID string   `json:"courier_id"`
	Name      string   `json:"name"`
	Location  *GeoSnap `json:"location,omitempty"`
}

// AssignCourierResult is returned by TrackingService.AssignCourier.
type AssignCourierResult struct {
	OrderID               string         `json:"order_id"`
	Status                string         `json:"status"`
	Courier               CourierSummary `json:"courier"`
	EstimatedDeliveryTime *time.Time     `json:"estimated_delivery_time,omitempty"`
}

// ReportLocationInput is the validated input for a courier GPS report.
type ReportLocationInput struct {
	OrderID   string
	Latitude  float64
	Longitude float64
}

// ReportLocationResult is returned by TrackingService.ReportLocation.
type ReportLocationResult struct {
	OrderID   string    `json:"order_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarkDeliveredInput is the validated input for delivery completion.
type MarkDeliveredInput struct {
	OrderID   string
	CourierID string
}

// MarkDeliveredResult is returned by TrackingService.MarkDelivered.
type MarkDeliveredResult struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// CreateOrderInput seeds an order for the external order-placement
// collaborator (simulation surface).
type CreateOrderInput struct {
	CustomerID   string
	RestaurantID string
	Items        []order.Item
	TotalAmount  float64
}

// CreateOrderResult is returned by TrackingService.CreateOrder.
type CreateOrderResult struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCourierInput seeds a courier for the external fleet-management
// collaborator (simulation surface). The starting position is optional.
type CreateCourierInput struct {
	Name      string
	Latitude  *float64
	Longitude *float64
}

// CreateCourierResult is returned by TrackingService.CreateCourier.
type CreateCourierResult struct {
	CourierID   string    `json:"courier_id"`
	Name        string    `json:"name"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

// GeoSnap is a latitude/longitude pair with its sample time.
type GeoSnap struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryView is one status-history row in a snapshot.
type HistoryView struct {
	Status     string    `json:"status"`
	ActorLabel string    `json:"actor_label"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TrackingSnapshot is the synchronous read consumed before realtime events
// start flowing. DeliveryLocation prefers the ephemeral cache and falls back
// to the durable record.
type TrackingSnapshot struct {
	OrderID               string          `json:"order_id"`
	Status                string          `json:"status"`
	Items                 []order.Item    `json:"items"`
	TotalAmount           float64         `json:"total_amount"`
	StatusHistory         []HistoryView   `json:"status_history"`
	Courier               *CourierSummary `json:"courier,omitempty"`
	DeliveryLocation      *GeoSnap        `json:"delivery_location,omitempty"`
	EstimatedDeliveryTime *time.Time      `json:"estimated_delivery_time,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// ----- Tracking Service Interface -----

// TrackingService exposes the boundary of the order-tracking coordinator.
// Every mutation is a transaction over the durable store; cache and broadcast
// side effects are best-effort and never roll back the durable write.
type TrackingService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error)
	CreateCourier(ctx context.Context, in CreateCourierInput) (CreateCourierResult, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (UpdateStatusResult, error)
	AssignCourier(ctx context.Context, in AssignCourierInput) (AssignCourierResult, error)
	ReportLocation(ctx context.Context, in ReportLocationInput) (ReportLocationResult, error)
	MarkDelivered(ctx context.Context, in MarkDeliveredInput) (MarkDeliveredResult, error)
	GetTrackingSnapshot(ctx context.Context, orderID string) (TrackingSnapshot, error)

	// StartCourierFeed runs the background consumer that feeds queued
	// courier location reports into ReportLocation.
	StartCourierFeed(ctx context.Context)
}
