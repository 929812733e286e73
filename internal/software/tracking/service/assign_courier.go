package service

import (
	"context"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/order"
	"food-track/internal/general/contracts"
	"food-track/internal/ports"
)

// AssignCourier binds a courier to the order and moves it out for delivery.
// The courier's last known position seeds the order's delivery location and
// the cache so subscribers see a coordinate before the first GPS report.
// Reassignment is allowed and explicitly releases the previous courier's hold
// in the same transaction.
func (service *trackingService) AssignCourier(ctx context.Context, in ports.AssignCourierInput) (ports.AssignCourierResult, error) {
	ctx = service.logger.WithOrderID(ctx, in.OrderID)
	corrID := generateCorrelationID()

	var (
		ord  *order.Order
		crr  *courier.Courier
		held bool
	)
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		ord, err = service.orders.GetByID(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if ord.Status.Terminal() {
			return order.ErrTerminalState
		}

		crr, err = service.couriers.GetByID(ctx, in.CourierID)
		if err != nil {
			return err
		}

		// Same courier re-assigned: accept without touching anything.
		if ord.CourierID != nil && *ord.CourierID == crr.ID {
			held = true
			return nil
		}

		if err := crr.TakeOrder(ord.ID); err != nil {
			return err
		}

		// Release the courier being replaced before committing the new one.
		if ord.CourierID != nil {
			if err := service.settleCourier(ctx, *ord.CourierID, ord.ID, false); err != nil {
				return err
			}
		}

		if err := ord.AssignCourier(crr.ID); err != nil {
			return err
		}
		if err := service.orders.SetCourier(ctx, ord.ID, crr.ID); err != nil {
			return err
		}

		// Seed the delivery location from the courier's last known position.
		if crr.CurrentLocation != nil {
			pt := *crr.CurrentLocation
			if err := ord.SetDeliveryLocation(pt.Latitude, pt.Longitude, pt.UpdatedAt); err != nil {
				return err
			}
			if err := service.orders.UpdateDeliveryLocation(ctx, ord.ID, pt); err != nil {
				return err
			}
		}

		// Assignment moves the order out for delivery (first entry stamps the
		// ETA). A reassignment records a same-status entry.
		if err := ord.Transition(order.StatusOutForDelivery, "system"); err != nil {
			return err
		}
		if err := service.orders.UpdateStatus(ctx, ord, *ord.LastHistory()); err != nil {
			return err
		}

		return service.couriers.SaveBookkeeping(ctx, crr)
	})
	if err != nil {
		service.logger.Error(ctx, "courier_assign_failed", "Failed to assign courier", err, map[string]any{
			"order_id":   in.OrderID,
			"courier_id": in.CourierID,
			"request_id": corrID,
		})
		return ports.AssignCourierResult{}, err
	}

	// Nothing was committed for a held courier, so nothing fans out either.
	if held {
		return ports.AssignCourierResult{
			OrderID:               ord.ID,
			Status:                ord.Status.String(),
			Courier:               courierSummary(crr),
			EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
		}, nil
	}

	effects := []effect{}
	if crr.CurrentLocation != nil {
		loc := *crr.CurrentLocation
		effects = append(effects, effect{
			name: "cache_seed",
			run: func(ctx context.Context) error {
				return service.cache.Set(ctx, ports.LocationSample{
					OrderID:   ord.ID,
					CourierID: crr.ID,
					Latitude:  loc.Latitude,
					Longitude: loc.Longitude,
					SampledAt: time.Now().UTC(),
				})
			},
		})
	}
	effects = append(effects,
		service.broadcastEffect(ord.ID, contracts.EventCourierAssigned, contracts.CourierAssignedEvent{
			OrderID:               ord.ID,
			Courier:               courierBrief(crr),
			EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
		}),
		effect{
			name: "publish_order_event",
			run: func(ctx context.Context) error {
				msg := service.orderEventMessage(ord.ID, ord.Status.String(), "system", ord.EstimatedDeliveryTime, corrID)
				return service.publishOrderEvent(ctx, contracts.RouteOrderStatusPrefix, msg)
			},
		},
	)
	service.runEffects(ctx, ord.ID, effects)

	service.logger.Info(ctx, "courier_assigned", "Courier assigned to order", map[string]any{
		"order_id":   ord.ID,
		"courier_id": crr.ID,
		"request_id": corrID,
	})

	return ports.AssignCourierResult{
		OrderID:               ord.ID,
		Status:                ord.Status.String(),
		Courier:               courierSummary(crr),
		EstimatedDeliveryTime: ord.EstimatedDeliveryTime,
	}, nil
}
