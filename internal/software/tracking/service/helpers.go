package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/general/contracts"
	"food-track/internal/ports"
)

// generateCorrelationID creates a simple correlation ID for tracing requests.
func generateCorrelationID() string {
	var b [3]byte // 6 hex chars
	_, _ = rand.Read(b[:])
	ts := time.Now().UTC().Format("20060102T150405")
	return "req_" + ts + "_" + hex.EncodeToString(b[:])
}

// publishOrderEvent sends an order lifecycle message to the order topic
// exchange with routing key "<prefix>{order_id}".
func (service *trackingService) publishOrderEvent(ctx context.Context, routingPrefix string, msg contracts.OrderEventMessage) error {
	routingKey := routingPrefix + msg.OrderID

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := service.pub.Publish(contracts.ExchangeOrderTopic, routingKey, body); err != nil {
		return err
	}

	service.logger.Info(ctx, "order_event_published", "Published order event to RabbitMQ", map[string]any{
		"routing_key": routingKey,
		"order_id":    msg.OrderID,
		"status":      msg.Status,
	})
	return nil
}

// orderEventMessage builds the broker message for a committed status change.
func (service *trackingService) orderEventMessage(orderID, status, actorLabel string, eta *time.Time, corrID string) contracts.OrderEventMessage {
	return contracts.OrderEventMessage{
		OrderID:               orderID,
		Status:                status,
		ActorLabel:            actorLabel,
		EstimatedDeliveryTime: eta,
		Timestamp:             time.Now().UTC(),
		Envelope: contracts.Envelope{
			Producer:      "tracking-service",
			CorrelationID: corrID,
			SentAt:        time.Now().UTC(),
		},
	}
}

// courierSummary maps the courier entity onto its subscriber-facing view.
func courierSummary(c *courier.Courier) ports.CourierSummary {
	out := ports.CourierSummary{
		CourierID: c.ID,
		Name:      c.Name,
	}
	if c.CurrentLocation != nil {
		out.Location = &ports.GeoSnap{
			Latitude:  c.CurrentLocation.Latitude,
			Longitude: c.CurrentLocation.Longitude,
			UpdatedAt: c.CurrentLocation.UpdatedAt,
		}
	}
	return out
}

// courierBrief maps the courier entity onto the room-event wire shape.
func courierBrief(c *courier.Courier) contracts.CourierBrief {
	out := contracts.CourierBrief{
		CourierID: c.ID,
		Name:      c.Name,
	}
	if c.CurrentLocation != nil {
		out.Location = &contracts.GeoPoint{
			Lat: c.CurrentLocation.Latitude,
			Lng: c.CurrentLocation.Longitude,
		}
	}
	return out
}
