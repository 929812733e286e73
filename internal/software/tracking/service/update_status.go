package service

import (
	"context"
	"time"

	"food-track/internal/domain/order"
	"food-track/internal/general/contracts"
	"food-track/internal/ports"
)

// UpdateStatus applies one status transition inside a transaction and then
// runs the post-commit effects: cache purge on terminal states, room
// broadcast, broker event.
func (service *trackingService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (ports.UpdateStatusResult, error) {
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

		if err := ord.Transition(in.Target, in.ActorLabel); err != nil {
			return err
		}
		if err := service.orders.UpdateStatus(ctx, ord, *ord.LastHistory()); err != nil {
			return err
		}

		// Terminal transitions settle the courier's bookkeeping in the same
		// transaction as the order row.
		if ord.HasCourier() {
			switch in.Target {
			case order.StatusCancelled:
				return service.settleCourier(ctx, *ord.CourierID, ord.ID, false)
			case order.StatusDelivered:
				return service.settleCourier(ctx, *ord.CourierID, ord.ID, true)
			}
		}
		return nil
	})
	if err != nil {
		service.logger.Error(ctx, "order_status_update_failed", "Failed to update order status", err, map[string]any{
			"order_id":   in.OrderID,
			"target":     in.Target.String(),
			"actor":      in.ActorLabel,
			"request_id": corrID,
		})
		return ports.UpdateStatusResult{}, err
	}

	service.runEffects(ctx, ord.ID, service.statusEffects(ord, in.ActorLabel, corrID, wasTerminal))

	service.logger.Info(ctx, "order_status_updated", "Order status updated", map[string]any{
		"order_id":   ord.ID,
		"status":     ord.Status.String(),
		"actor":      in.ActorLabel,
		"request_id": corrID,
	})

	return ports.UpdateStatusResult{
		OrderID:               ord.ID,
		Status:                ord.Status.String(),
		EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
		UpdatedAt:             ord.UpdatedAt,
	}, nil
}

// settleCourier releases or completes the courier's hold on the order.
// Caller must be inside a transaction.
func (service *trackingService) settleCourier(ctx context.Context, courierID, orderID string, completed bool) error {
	c, err := service.couriers.GetByID(ctx, courierID)
	if err != nil {
		return err
	}
	// Terminal commands are at-most-once upstream, so duplicates reach us.
	// Once the courier has let go of the order there is nothing to settle;
	// settling again would double-count the delivery.
	if !c.HasActiveOrder(orderID) {
		return nil
	}
	if completed {
		c.CompleteOrder(orderID)
	} else {
		c.ReleaseOrder(orderID)
	}
	return service.couriers.SaveBookkeeping(ctx, c)
}

// statusEffects builds the ordered post-commit effect list for a committed
// status change. wasTerminal marks a command that re-applied an already
// terminal status; the one-shot completion fanout must not fire again for it.
func (service *trackingService) statusEffects(ord *order.Order, actorLabel, corrID string, wasTerminal bool) []effect {
	now := time.Now().UTC()
	effects := []effect{}

	if ord.Status.Terminal() {
		// The room is about to go quiet; drop the ephemeral sample now
		// instead of waiting for the TTL.
		effects = append(effects, service.purgeCacheEffect(ord.ID))
	}

	effects = append(effects, service.broadcastEffect(ord.ID, contracts.EventStatusChanged, contracts.StatusChangedEvent{
		OrderID:               ord.ID,
		Status:                ord.Status.String(),
		EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
		Timestamp:             now,
	}))

	routingPrefix := contracts.RouteOrderStatusPrefix
	if ord.Status == order.StatusDelivered && !wasTerminal {
		effects = append(effects, service.broadcastEffect(ord.ID, contracts.EventDelivered, contracts.DeliveredEvent{
			OrderID:     ord.ID,
			DeliveredAt: ord.UpdatedAt,
		}))
		routingPrefix = contracts.RouteOrderDeliveredPrefix
	}

	effects = append(effects, effect{
		name: "publish_order_event",
		run: func(ctx context.Context) error {
			msg := service.orderEventMessage(ord.ID, ord.Status.String(), actorLabel, ord.EstimatedDeliveryTime, corrID)
			return service.publishOrderEvent(ctx, routingPrefix, msg)
		},
	})

	return effects
}
