package service

import (
	"context"
	"time"

	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"
	"food-track/internal/general/contracts"
	"food-track/internal/ports"
)

// ReportLocation records a courier GPS sample for an order. The durable
// stamp on the order and courier rows commits first; the cache refresh and
// the room broadcast follow best-effort. A report for an order with no
// assigned courier is rejected and writes nothing.
func (service *trackingService) ReportLocation(ctx context.Context, in ports.ReportLocationInput) (ports.ReportLocationResult, error) {
	ctx = service.logger.WithOrderID(ctx, in.OrderID)
	now := time.Now().UTC()

	pt, err := geo.NewPoint(in.Latitude, in.Longitude, now)
	if err != nil {
		return ports.ReportLocationResult{}, err
	}

	var courierID string
	err = service.uow.WithinTx(ctx, func(ctx context.Context) error {
		assigned, err := service.orders.CourierAssignment(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if assigned == nil {
			return order.ErrNoCourierAssigned
		}
		courierID = *assigned

		if err := service.orders.UpdateDeliveryLocation(ctx, in.OrderID, *pt); err != nil {
			return err
		}
		return service.couriers.UpdateLocation(ctx, courierID, *pt)
	})
	if err != nil {
		service.logger.Error(ctx, "location_report_failed", "Failed to record courier location", err, map[string]any{
			"order_id": in.OrderID,
			"lat":      in.Latitude,
			"lng":      in.Longitude,
		})
		return ports.ReportLocationResult{}, err
	}

	service.runEffects(ctx, in.OrderID, []effect{
		{
			name: "cache_set",
			run: func(ctx context.Context) error {
				return service.cache.Set(ctx, ports.LocationSample{
					OrderID:   in.OrderID,
					CourierID: courierID,
					Latitude:  in.Latitude,
					Longitude: in.Longitude,
					SampledAt: now,
				})
			},
		},
		service.broadcastEffect(in.OrderID, contracts.EventLocationUpdated, contracts.LocationUpdatedEvent{
			OrderID:   in.OrderID,
			Latitude:  in.Latitude,
			Longitude: in.Longitude,
			Timestamp: now,
		}),
	})

	service.logger.Debug(ctx, "location_reported", "Courier location recorded", map[string]any{
		"order_id":   in.OrderID,
		"courier_id": courierID,
		"lat":        in.Latitude,
		"lng":        in.Longitude,
	})

	return ports.ReportLocationResult{
		OrderID:   in.OrderID,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		UpdatedAt: now,
	}, nil
}
