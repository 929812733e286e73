package service

import (
	"context"

	"food-track/internal/domain/order"
	"food-track/internal/ports"
)

// MarkDelivered completes the delivery: the order moves to DELIVERED, the
// courier's counters settle, the cached location is purged and the room gets
// its final events. The reporting courier must match the assignment.
func (service *trackingService) MarkDelivered(ctx context.Context, in ports.MarkDeliveredInput) (ports.MarkDeliveredResult, error) {
	ctx = service.logger.WithOrderID(ctx, in.OrderID)
	corrID := generateCorrelationID()

	var (
		ord         *order.Order
		wasTerminal bool
	)
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ord, err = service.orders.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		wasTerminal = ord.Status.Terminal()
		if !ord.HasCourier() {
			return order.ErrNoCourierAssigned
		}
		if in.CourierID != "" && *ord.CourierID != in.CourierID {
			return ErrCourierMismatch
		}

		if err := ord.Transition(order.StatusDelivered, "courier"); err != nil {
			return err
		}
		if err := service.orders.UpdateStatus(ctx, ord, *ord.LastHistory()); err != nil {
			return err
		}
		return service.settleCourier(ctx, *ord.CourierID, ord.ID, true)
	})
	if err != nil {
		service.logger.Error(ctx, "order_deliver_failed", "Failed to mark order delivered", err, map[string]any{
			"order_id":   in.OrderID,
			"courier_id": in.CourierID,
			"request_id": corrID,
		})
		return ports.MarkDeliveredResult{}, err
	}

	service.runEffects(ctx, ord.ID, service.statusEffects(ord, "courier", corrID, wasTerminal))

	service.logger.Info(ctx, "order_delivered", "Order marked delivered", map[string]any{
		"order_id":   ord.ID,
		"courier_id": in.CourierID,
		"request_id": corrID,
	})

	return ports.MarkDeliveredResult{
		OrderID:     ord.ID,
		Status:      ord.Status.String(),
		DeliveredAt: ord.UpdatedAt,
	}, nil
}
